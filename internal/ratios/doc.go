// Package ratios is the single source of the financial ratio formulas.
//
// Every ratio is computed from the raw statement fields of a
// domain.FinancialRecord. A ratio with a null numerator, or a null or zero
// denominator, is undefined and reported as an invalid sql.NullFloat64. It
// is never zero and never infinite.
//
// Growth metrics are period-over-period percentage changes within a ticker,
// ordered by period ending.
package ratios
