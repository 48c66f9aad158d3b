package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nysecli/internal/config"
	"nysecli/pkg/contracts/domain"
)

func TestLinearTrend(t *testing.T) {
	got, err := LinearTrend([]float64{1, 2, 3}, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 5}, got, 1e-9)

	_, err = LinearTrend([]float64{5}, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDifferencedAR(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"drift from a single pair", []float64{10, 20, 30}, []float64{40, 50}},
		{"exact AR(1) on differences", []float64{0, 1, 3, 7, 15}, []float64{31, 63}},
		{"constant differences", []float64{1, 3, 5, 7}, []float64{9, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DifferencedAR(tt.values, 2)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}

	_, err := DifferencedAR([]float64{10, 20}, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func series(ticker string, values ...float64) []domain.CompanyPeriod {
	out := make([]domain.CompanyPeriod, 0, len(values))
	for i, v := range values {
		out = append(out, domain.CompanyPeriod{Record: domain.FinancialRecord{
			Ticker:       ticker,
			PeriodEnding: time.Date(2012+i, 9, 29, 0, 0, 0, 0, time.UTC),
			TotalRevenue: decimal.NewNullDecimal(decimal.NewFromFloat(v)),
		}})
	}
	return out
}

func TestRevenueSeries(t *testing.T) {
	periods := append(series("AAPL", 100, 200), series("MSFT", 5)...)
	// Reverse the AAPL rows and add rows that must be skipped
	periods[0], periods[1] = periods[1], periods[0]
	periods = append(periods,
		domain.CompanyPeriod{Record: domain.FinancialRecord{Ticker: "AAPL", TotalRevenue: decimal.NewNullDecimal(decimal.NewFromInt(1))}},
		domain.CompanyPeriod{Record: domain.FinancialRecord{Ticker: "AAPL", PeriodEnding: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}},
	)

	got := RevenueSeries(periods, "AAPL")
	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Value)
	assert.Equal(t, 200.0, got[1].Value)
}

func TestForecaster_Revenue(t *testing.T) {
	cfg := config.Default().Forecast
	f := NewForecaster(cfg, nil)

	fc, err := f.Revenue(context.Background(), series("AAPL", 100, 110, 120, 130))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", fc.Ticker)
	require.Len(t, fc.Dates, cfg.Periods)
	assert.Equal(t, time.Date(2016, 9, 29, 0, 0, 0, 0, time.UTC), fc.Dates[0])
	assert.InDeltaSlice(t, []float64{140, 150, 160, 170}, fc.Linear, 1e-9)
	assert.InDeltaSlice(t, []float64{140, 150, 160, 170}, fc.AR, 1e-9)
	assert.Equal(t, fc.AR, fc.Projected())

	t.Run("two points skip the AR model", func(t *testing.T) {
		fc, err := f.Revenue(context.Background(), series("AAPL", 100, 120))
		require.NoError(t, err)
		assert.Nil(t, fc.AR)
		assert.Equal(t, fc.Linear, fc.Projected())
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := f.Revenue(context.Background(), series("MSFT", 1, 2, 3))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestProjectExpenses(t *testing.T) {
	cfg := config.Default().Forecast
	f := NewForecaster(cfg, nil)
	fc := &RevenueForecast{
		Dates:  []time.Time{time.Date(2016, 9, 29, 0, 0, 0, 0, time.UTC), time.Date(2017, 9, 29, 0, 0, 0, 0, time.UTC)},
		Linear: []float64{1000, 2000},
	}

	proj := f.ProjectExpenses(fc)
	require.Len(t, proj.Rows, 2)

	row := proj.Rows[0]
	assert.Equal(t, fc.Dates[0], row.Date)
	assert.InDelta(t, 580, row.CostOfRevenue, 1e-9)
	assert.InDelta(t, 60, row.ResearchDev, 1e-9)
	assert.InDelta(t, 120, row.OperatingExpenses, 1e-9)
	assert.InDelta(t, 420, row.GrossProfit, 1e-9)
	assert.InDelta(t, 300, row.OperatingIncome, 1e-9)
	assert.InDelta(t, 0.42, row.GrossMargin.Float64, 1e-9)
	assert.InDelta(t, 0.30, row.OperatingMargin.Float64, 1e-9)
	assert.InDelta(t, 0.58, proj.AvgCOGSRatio.Float64, 1e-9)

	// R&D is 60 then 120: the trend continues at +60 per period
	assert.InDeltaSlice(t, []float64{180, 240, 300}, proj.RDTrend, 1e-9)
}

func TestScenarios(t *testing.T) {
	f := NewForecaster(config.Default().Forecast, nil)
	sa := f.Scenarios()

	require.True(t, sa.BreakEven.Valid)
	assert.InDelta(t, 342857.142857, sa.BreakEven.Float64, 1e-5)
	require.Len(t, sa.Scenarios, 3)

	first := sa.Scenarios[0]
	assert.Equal(t, 500000.0, first.Revenue)
	assert.InDelta(t, 55000, first.OriginalProfit, 1e-6)
	assert.InDelta(t, 22500, first.NewProfit, 1e-6)
	assert.InDelta(t, -32500, first.Impact, 1e-6)
}

func TestBreakEven(t *testing.T) {
	assert.False(t, BreakEven(120000, 1).Valid)
	assert.False(t, BreakEven(120000, 1.2).Valid)
	assert.InDelta(t, 200, BreakEven(100, 0.5).Float64, 1e-12)
}
