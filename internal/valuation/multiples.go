package valuation

import (
	"database/sql"

	"nysecli/pkg/contracts/domain"
)

// Multiple is one fundamentals row priced at the latest close of its ticker
type Multiple struct {
	Period domain.CompanyPeriod
	Close  sql.NullFloat64
	PE     sql.NullFloat64
	PB     sql.NullFloat64
}

// Multiples prices every period with the latest close of its ticker. Rows
// without a close, or whose latest bar has a null close, keep undefined
// multiples.
func Multiples(periods []domain.CompanyPeriod, latest map[string]domain.PriceRecord) []Multiple {
	out := make([]Multiple, len(periods))
	for i := range periods {
		m := Multiple{Period: periods[i]}
		if bar, ok := latest[periods[i].Record.Ticker]; ok && bar.Close.Valid {
			m.Close = bar.Close
			m.PE = PriceToEarnings(bar.Close.Float64, &periods[i].Record)
			m.PB = PriceToBook(bar.Close.Float64, &periods[i].Record)
		}
		out[i] = m
	}
	return out
}

// PriceToEarnings is close / EPS
func PriceToEarnings(close float64, rec *domain.FinancialRecord) sql.NullFloat64 {
	if !rec.EarningsPerShare.Valid || rec.EarningsPerShare.Decimal.IsZero() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: close / rec.EarningsPerShare.Decimal.InexactFloat64(), Valid: true}
}

// PriceToBook is close / (Total Equity / Estimated Shares Outstanding)
func PriceToBook(close float64, rec *domain.FinancialRecord) sql.NullFloat64 {
	equity, shares := rec.TotalEquity, rec.SharesOutstanding
	if !equity.Valid || !shares.Valid || shares.Decimal.IsZero() || equity.Decimal.IsZero() {
		return sql.NullFloat64{}
	}
	book := equity.Decimal.Div(shares.Decimal).InexactFloat64()
	return sql.NullFloat64{Float64: close / book, Valid: true}
}

// Filter keeps rows whose P/E and P/B are both defined and below the bounds
func Filter(ms []Multiple, maxPE, maxPB float64) []Multiple {
	var out []Multiple
	for _, m := range ms {
		if m.PE.Valid && m.PB.Valid && m.PE.Float64 < maxPE && m.PB.Float64 < maxPB {
			out = append(out, m)
		}
	}
	return out
}
