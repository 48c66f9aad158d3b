package valuation

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "nysecli/internal/errors"
	"nysecli/pkg/contracts/domain"
)

func dec(v float64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromFloat(v)) }

func price(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestPriceToEarnings(t *testing.T) {
	rec := &domain.FinancialRecord{EarningsPerShare: dec(9.22)}
	pe := PriceToEarnings(115.82, rec)
	require.True(t, pe.Valid)
	assert.InDelta(t, 12.5618, pe.Float64, 1e-4)

	assert.False(t, PriceToEarnings(10, &domain.FinancialRecord{EarningsPerShare: dec(0)}).Valid)
	assert.False(t, PriceToEarnings(10, &domain.FinancialRecord{}).Valid)
}

func TestPriceToBook(t *testing.T) {
	rec := &domain.FinancialRecord{TotalEquity: dec(300), SharesOutstanding: dec(100)}
	pb := PriceToBook(6, rec)
	require.True(t, pb.Valid)
	assert.InDelta(t, 2, pb.Float64, 1e-12)

	assert.False(t, PriceToBook(6, &domain.FinancialRecord{TotalEquity: dec(300), SharesOutstanding: dec(0)}).Valid)
	assert.False(t, PriceToBook(6, &domain.FinancialRecord{TotalEquity: dec(0), SharesOutstanding: dec(100)}).Valid)
	assert.False(t, PriceToBook(6, &domain.FinancialRecord{SharesOutstanding: dec(100)}).Valid)
}

func TestMultiplesAndFilter(t *testing.T) {
	periods := []domain.CompanyPeriod{
		{Record: domain.FinancialRecord{Ticker: "AAPL", EarningsPerShare: dec(9.22), TotalEquity: dec(119355), SharesOutstanding: dec(5791.11)}},
		{Record: domain.FinancialRecord{Ticker: "BADCO", EarningsPerShare: dec(-1.2), TotalEquity: dec(250), SharesOutstanding: dec(100)}},
		{Record: domain.FinancialRecord{Ticker: "PENNY", EarningsPerShare: dec(0.01), TotalEquity: dec(100), SharesOutstanding: dec(100)}},
		{Record: domain.FinancialRecord{Ticker: "NOPRICE", EarningsPerShare: dec(1)}},
	}
	latest := map[string]domain.PriceRecord{
		"AAPL":  {Symbol: "AAPL", Close: price(115.82)},
		"BADCO": {Symbol: "BADCO", Close: price(5)},
		"PENNY": {Symbol: "PENNY", Close: price(2)},
	}

	ms := Multiples(periods, latest)
	require.Len(t, ms, 4)
	assert.True(t, ms[0].PE.Valid)
	assert.InDelta(t, 2.0, ms[1].PB.Float64, 1e-12)
	assert.False(t, ms[3].Close.Valid)
	assert.False(t, ms[3].PE.Valid)

	kept := Filter(ms, 100, 20)
	require.Len(t, kept, 2, "P/E of 200 and missing prices are dropped")
	assert.Equal(t, "AAPL", kept[0].Period.Record.Ticker)
	assert.Equal(t, "BADCO", kept[1].Period.Record.Ticker, "negative P/E is below the bound")
}

func TestMultiples_NullClose(t *testing.T) {
	periods := []domain.CompanyPeriod{
		{Record: domain.FinancialRecord{Ticker: "AAPL", EarningsPerShare: dec(9.22), TotalEquity: dec(119355), SharesOutstanding: dec(5791.11)}},
		{Record: domain.FinancialRecord{Ticker: "MSFT", EarningsPerShare: dec(2.63), TotalEquity: dec(72163), SharesOutstanding: dec(8254)}},
	}
	// an empty and a non-numeric close both load as an invalid value
	latest := map[string]domain.PriceRecord{
		"AAPL": {Symbol: "AAPL", Open: price(1), Volume: price(100)},
		"MSFT": {Symbol: "MSFT", Close: sql.NullFloat64{}},
	}

	ms := Multiples(periods, latest)
	require.Len(t, ms, 2)
	for _, m := range ms {
		assert.False(t, m.Close.Valid, m.Period.Record.Ticker)
		assert.False(t, m.PE.Valid, m.Period.Record.Ticker)
		assert.False(t, m.PB.Valid, m.Period.Record.Ticker)
	}
	assert.Empty(t, Filter(ms, 100, 20), "a null close is never priced at zero")
}

func TestPresentValue(t *testing.T) {
	pv := PresentValue([]float64{25000, 30000, 35000, 40000}, 0.10)
	want := 25000/1.1 + 30000/1.21 + 35000/1.331 + 40000/1.4641
	assert.InDelta(t, want, pv, 1e-6)
	assert.InDelta(t, 101137.22, pv, 0.01)

	assert.Zero(t, PresentValue(nil, 0.1))
	assert.InDelta(t, 30, PresentValue([]float64{10, 20}, 0), 1e-12)
}

func TestMonteCarlo(t *testing.T) {
	history := []float64{156508, 170910, 182795, 233715}

	sim, err := MonteCarlo(history, 1000, 42, 600000)
	require.NoError(t, err)
	assert.Len(t, sim.Draws, 1000)
	assert.InDelta(t, 185982, sim.Mean, 1)
	assert.Zero(t, sim.Probability, "target is far above the history")

	again, err := MonteCarlo(history, 1000, 42, 600000)
	require.NoError(t, err)
	assert.Equal(t, sim.Draws, again.Draws, "same seed, same draws")

	half, err := MonteCarlo(history, 2000, 7, sim.Mean)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, half.Probability, 0.05)

	_, err = MonteCarlo(nil, 10, 42, 1)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInsufficientData))

	_, err = MonteCarlo(history, 0, 42, 1)
	assert.Error(t, err)
}
