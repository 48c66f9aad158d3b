package sector

import (
	"context"
	"log/slog"
	"sort"

	"nysecli/internal/ratios"
	"nysecli/pkg/contracts/domain"
)

// BasicRatios are averaged in the basic sector table
var BasicRatios = []string{domain.RatioNetMargin, domain.RatioROE, domain.RatioDebtToEquity}

// DetailedRatios are summarized in the detailed sector table
var DetailedRatios = []string{
	domain.RatioNetMargin,
	domain.RatioROE,
	domain.RatioDebtToEquity,
	domain.RatioCurrentRatio,
	domain.RatioGrossMargin,
}

// Summary holds the aggregates of one sector
type Summary struct {
	Sector    string
	Companies int // distinct tickers
	Rows      int
	Ratios    map[string]Aggregate
}

// Analyzer groups ratio rows by sector
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze aggregates names per sector, ordered by sector name. Rows without
// a sector are excluded; undefined ratios are skipped per aggregate.
func (a *Analyzer) Analyze(ctx context.Context, periods []domain.CompanyPeriod, names []string) []Summary {
	type group struct {
		tickers map[string]struct{}
		rows    int
		values  map[string][]float64
	}
	groups := make(map[string]*group)

	for i := range periods {
		sector := periods[i].Sector()
		if sector == "" {
			continue
		}
		g, ok := groups[sector]
		if !ok {
			g = &group{tickers: make(map[string]struct{}), values: make(map[string][]float64)}
			groups[sector] = g
		}
		g.tickers[periods[i].Record.Ticker] = struct{}{}
		g.rows++
		for _, name := range names {
			if v, _ := ratios.Lookup(periods[i].Ratios, name); v.Valid {
				g.values[name] = append(g.values[name], v.Float64)
			}
		}
	}

	out := make([]Summary, 0, len(groups))
	for sector, g := range groups {
		s := Summary{
			Sector:    sector,
			Companies: len(g.tickers),
			Rows:      g.rows,
			Ratios:    make(map[string]Aggregate, len(names)),
		}
		for _, name := range names {
			s.Ratios[name] = Summarize(g.values[name])
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })

	a.logger.InfoContext(ctx, "Sector analysis complete",
		slog.Int("sectors", len(out)),
		slog.Int("ratios", len(names)))

	return out
}

// GroupValues returns the defined values of one ratio per sector
func GroupValues(periods []domain.CompanyPeriod, name string) map[string][]float64 {
	out := make(map[string][]float64)
	for i := range periods {
		sector := periods[i].Sector()
		if sector == "" {
			continue
		}
		if v, _ := ratios.Lookup(periods[i].Ratios, name); v.Valid {
			out[sector] = append(out[sector], v.Float64)
		}
	}
	return out
}
