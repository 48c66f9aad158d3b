package forecast

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"nysecli/internal/config"
	"nysecli/pkg/contracts/domain"
)

// Point is one observation of a series
type Point struct {
	Period time.Time
	Value  float64
}

// RevenueForecast holds both model outputs for the next periods. AR is nil
// when the series was too short for the differenced model.
type RevenueForecast struct {
	Ticker  string
	History []Point
	Dates   []time.Time
	Linear  []float64
	AR      []float64
}

// Projected returns the differenced AR forecast, or the linear trend when
// the AR model could not be fit
func (f *RevenueForecast) Projected() []float64 {
	if f.AR != nil {
		return f.AR
	}
	return f.Linear
}

// Forecaster runs the revenue, expense and scenario models
type Forecaster struct {
	cfg    config.ForecastConfig
	logger *slog.Logger
}

// NewForecaster creates a forecaster
func NewForecaster(cfg config.ForecastConfig, logger *slog.Logger) *Forecaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{cfg: cfg, logger: logger}
}

// RevenueSeries returns the revenue of ticker ordered by period. Periods with
// an unknown date or null revenue are skipped.
func RevenueSeries(periods []domain.CompanyPeriod, ticker string) []Point {
	var series []Point
	for i := range periods {
		rec := &periods[i].Record
		if rec.Ticker != ticker || !rec.HasPeriod() || !rec.TotalRevenue.Valid {
			continue
		}
		series = append(series, Point{Period: rec.PeriodEnding, Value: rec.TotalRevenue.Decimal.InexactFloat64()})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Period.Before(series[j].Period) })
	return series
}

// Revenue forecasts the configured ticker's revenue. It fails with
// ErrInsufficientData only when not even the linear trend can be fit.
func (f *Forecaster) Revenue(ctx context.Context, periods []domain.CompanyPeriod) (*RevenueForecast, error) {
	history := RevenueSeries(periods, f.cfg.Ticker)
	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = p.Value
	}

	linear, err := LinearTrend(values, f.cfg.Periods)
	if err != nil {
		return nil, err
	}

	ar, err := DifferencedAR(values, f.cfg.Periods)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			return nil, err
		}
		f.logger.WarnContext(ctx, "Differenced AR skipped",
			slog.String("ticker", f.cfg.Ticker),
			slog.Int("observations", len(values)),
			slog.String("error", err.Error()))
	}

	fc := &RevenueForecast{
		Ticker:  f.cfg.Ticker,
		History: history,
		Dates:   futureDates(history, f.cfg.Periods),
		Linear:  linear,
		AR:      ar,
	}

	f.logger.InfoContext(ctx, "Revenue forecast complete",
		slog.String("ticker", fc.Ticker),
		slog.Int("observations", len(history)),
		slog.Int("periods", f.cfg.Periods))

	return fc, nil
}

// futureDates continues the series at the spacing of its last two periods,
// rounded to whole months. A single period steps by a year.
func futureDates(history []Point, k int) []time.Time {
	if len(history) == 0 {
		return nil
	}
	last := history[len(history)-1].Period
	months := 12
	if len(history) > 1 {
		gap := last.Sub(history[len(history)-2].Period).Hours() / 24 / 30.4375
		if m := int(math.Round(gap)); m > 0 {
			months = m
		}
	}

	out := make([]time.Time, k)
	for i := range out {
		out[i] = last.AddDate(0, months*(i+1), 0)
	}
	return out
}
