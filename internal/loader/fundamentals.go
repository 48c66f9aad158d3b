package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	apperrors "nysecli/internal/errors"
	"nysecli/pkg/contracts/domain"
)

// FundamentalsTable is the name used in diagnostics
const FundamentalsTable = "fundamentals"

// baseFundamentalsColumns are required by every command
var baseFundamentalsColumns = []string{domain.ColTickerSymbol, domain.ColPeriodEnding}

// Loader reads the dataset tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that logs to logger, or slog.Default when nil
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadFundamentals reads the fundamentals CSV. The header is kept as is so
// that every input column can be re-emitted; statement fields the toolkit
// knows about are parsed into FinancialRecord. required lists statement
// columns the caller's analysis cannot run without.
func (l *Loader) LoadFundamentals(ctx context.Context, path string, required ...string) (*domain.FundamentalsTable, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := readFundamentals(ctx, file, append(append([]string{}, baseFundamentalsColumns...), required...))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	l.logger.InfoContext(ctx, "Loaded fundamentals",
		slog.String("path", path),
		slog.Int("records", len(table.Records)),
		slog.Int("columns", len(table.Header)))

	return table, nil
}

func readFundamentals(ctx context.Context, r io.Reader, required []string) (*domain.FundamentalsTable, error) {
	reader := csv.NewReader(r)

	// Read header
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewMissingColumnError(FundamentalsTable, required, ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := indexHeader(header)
	if err := checkRequired(FundamentalsTable, idx, required); err != nil {
		return nil, err
	}

	tickerIdx := idx[domain.ColTickerSymbol]
	periodIdx := idx[domain.ColPeriodEnding]

	// Resolve the known statement columns present in this file
	type binding struct {
		col   int
		field domain.FieldSpec
	}
	bindings := make([]binding, 0, len(domain.FinancialFields))
	for _, f := range domain.FinancialFields {
		if i, ok := idx[f.Column]; ok {
			bindings = append(bindings, binding{col: i, field: f})
		}
	}

	table := &domain.FundamentalsTable{Header: header}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("fundamentals line %d", line), err)
		}

		rec := domain.FinancialRecord{
			Ticker:       NormalizeTicker(row[tickerIdx]),
			PeriodEnding: ParseDate(row[periodIdx]),
			Raw:          row,
		}
		for _, b := range bindings {
			*b.field.Field(&rec) = ParseDecimal(row[b.col])
		}

		table.Records = append(table.Records, rec)
	}

	return table, nil
}
