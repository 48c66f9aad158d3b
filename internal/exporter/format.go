package exporter

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format of every report and the database
const DateLayout = "2006-01-02"

// FormatFloat formats a float64 with the fewest digits that round-trip
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatNullFloat formats a defined value, and returns an empty cell for an
// undefined one
func FormatNullFloat(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return FormatFloat(f.Float64)
}

// FormatDecimal formats a nullable decimal, empty when null
func FormatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// FormatDate formats t as YYYY-MM-DD, empty for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatInt formats an int for CSV output
func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// FormatBool formats a boolean as 1 or 0
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
