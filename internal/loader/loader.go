package loader

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"nysecli/pkg/contracts/domain"
)

// Sources names the files to load. An empty path skips that table.
type Sources struct {
	Fundamentals string
	Securities   string
	Prices       string

	// Extra required columns per table
	FundamentalsColumns []string
	SecuritiesColumns   []string
}

// Dataset holds the loaded tables
type Dataset struct {
	Fundamentals *domain.FundamentalsTable
	Securities   []domain.SecurityMeta
	Prices       []domain.PriceRecord
}

// LoadAll reads the requested tables concurrently. The first failure
// cancels the remaining reads and is returned.
func (l *Loader) LoadAll(ctx context.Context, src Sources) (*Dataset, error) {
	var ds Dataset
	g, gctx := errgroup.WithContext(ctx)

	if src.Fundamentals != "" {
		g.Go(func() error {
			t, err := l.LoadFundamentals(gctx, src.Fundamentals, src.FundamentalsColumns...)
			ds.Fundamentals = t
			return err
		})
	}
	if src.Securities != "" {
		g.Go(func() error {
			s, err := l.LoadSecurities(gctx, src.Securities, src.SecuritiesColumns...)
			ds.Securities = s
			return err
		})
	}
	if src.Prices != "" {
		g.Go(func() error {
			p, err := l.LoadPrices(gctx, src.Prices)
			ds.Prices = p
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "Dataset loaded",
		slog.Int("fundamentals", ds.Fundamentals.Len()),
		slog.Int("securities", len(ds.Securities)),
		slog.Int("prices", len(ds.Prices)))

	return &ds, nil
}
