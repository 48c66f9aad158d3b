package loader

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "nysecli/internal/errors"
)

var (
	// ErrMissingColumn is wrapped by every missing-column failure
	ErrMissingColumn = errors.New("missing required column")
	// ErrMissingFile is wrapped when an input file does not exist
	ErrMissingFile = errors.New("input file not found")
)

const utf8BOM = "\ufeff"

// dateLayouts are tried in order; the NYSE files use the first two
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate parses a dataset date, returning the zero time when no layout
// matches
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseDecimal parses a statement cell. Empty and non-numeric cells are null.
func ParseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseFloat parses a price cell with the same null rules as ParseDecimal
func ParseFloat(s string) sql.NullFloat64 {
	d := ParseDecimal(s)
	if !d.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: d.Decimal.InexactFloat64(), Valid: true}
}

// NormalizeTicker trims and upper-cases a ticker symbol
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// indexHeader maps column names to positions, stripping a leading BOM
func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
			header[0] = col
		}
		idx[col] = i
	}
	return idx
}

// checkRequired returns a missing-column error listing every absent column
func checkRequired(table string, idx map[string]int, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingColumnError(table, missing, ErrMissingColumn)
	}
	return nil
}

// openInput opens path, mapping a not-exist error to ErrMissingFile
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewMissingFileError(path, ErrMissingFile)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
