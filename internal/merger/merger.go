// Package merger joins the fundamentals table with the securities and
// prices reference tables.
package merger

import (
	"time"

	"nysecli/pkg/contracts/domain"
)

// priceKey identifies a daily bar
type priceKey struct {
	symbol string
	date   time.Time
}

// WithSecurities left-joins records to securities on ticker. Every record is
// kept; Security is nil when the ticker is not listed. When a ticker appears
// more than once in securities the first row wins.
func WithSecurities(records []domain.FinancialRecord, securities []domain.SecurityMeta) []domain.CompanyPeriod {
	byTicker := make(map[string]*domain.SecurityMeta, len(securities))
	for i := range securities {
		if _, seen := byTicker[securities[i].Ticker]; !seen {
			byTicker[securities[i].Ticker] = &securities[i]
		}
	}

	out := make([]domain.CompanyPeriod, len(records))
	for i := range records {
		out[i] = domain.CompanyPeriod{
			Record:   records[i],
			Security: byTicker[records[i].Ticker],
		}
	}
	return out
}

// WithPrices left-joins periods to prices on (ticker, period ending). Rows with
// an unknown period never match.
func WithPrices(periods []domain.CompanyPeriod, prices []domain.PriceRecord) {
	byKey := make(map[priceKey]*domain.PriceRecord, len(prices))
	for i := range prices {
		if prices[i].Date.IsZero() {
			continue
		}
		k := priceKey{symbol: prices[i].Symbol, date: dateOnly(prices[i].Date)}
		if _, seen := byKey[k]; !seen {
			byKey[k] = &prices[i]
		}
	}

	for i := range periods {
		rec := &periods[i].Record
		if !rec.HasPeriod() {
			continue
		}
		periods[i].Price = byKey[priceKey{symbol: rec.Ticker, date: dateOnly(rec.PeriodEnding)}]
	}
}

// LatestClose returns the bar with the latest date for each symbol. On equal
// dates the later row in input order wins.
func LatestClose(prices []domain.PriceRecord) map[string]domain.PriceRecord {
	latest := make(map[string]domain.PriceRecord)
	for _, p := range prices {
		cur, ok := latest[p.Symbol]
		if !ok || !p.Date.Before(cur.Date) {
			latest[p.Symbol] = p
		}
	}
	return latest
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
