package operations

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"gonum.org/v1/plot/plotter"

	"nysecli/internal/charts"
	"nysecli/internal/config"
	"nysecli/internal/ratios"
	"nysecli/internal/report"
	"nysecli/internal/risk"
	"nysecli/internal/sector"
	"nysecli/pkg/contracts/domain"
)

// ReportWriter writes one group of outputs from the run state
type ReportWriter func(ctx context.Context, env *Env, state *State) error

// ReportStep runs its writers in order
type ReportStep struct {
	BaseStep
	env     *Env
	writers []ReportWriter
}

// NewReportStep creates a report step running after deps
func NewReportStep(env *Env, id, name string, deps []string, writers ...ReportWriter) *ReportStep {
	return &ReportStep{BaseStep: NewBaseStep(id, name, deps...), env: env, writers: writers}
}

// Validate implements Step
func (s *ReportStep) Validate(state *State) error {
	if len(s.writers) == 0 {
		return NewValidationError(s.ID(), "no report writers")
	}
	return requirePeriods(s.ID(), state)
}

// Execute implements Step
func (s *ReportStep) Execute(ctx context.Context, state *State) error {
	for _, w := range s.writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w(ctx, s.env, state); err != nil {
			return err
		}
	}
	return nil
}

// WriteMerged writes the fundamentals and securities merge
func WriteMerged(ctx context.Context, env *Env, state *State) error {
	return env.Reporter.WriteTable(ctx, config.MergedCSVFileName, report.MergedTable(state.Header(), state.Periods))
}

// WritePrices writes the merge joined with period end prices
func WritePrices(ctx context.Context, env *Env, state *State) error {
	return env.Reporter.WriteTable(ctx, config.MergedPricesCSVFileName, report.PricesTable(state.Header(), state.Periods))
}

// WriteRatios writes the fundamentals with every derived ratio
func WriteRatios(ctx context.Context, env *Env, state *State) error {
	return env.Reporter.WriteTable(ctx, config.RatiosCSVFileName, report.RatiosTable(state.Header(), state.Periods))
}

// subsetFiles maps each flag subset to its output file
var subsetFiles = map[string]string{
	risk.SubsetHighRisk:       config.HighRiskCSVFileName,
	risk.SubsetDebtRisks:      config.DebtRisksCSVFileName,
	risk.SubsetHighDebt:       config.HighDebtCSVFileName,
	risk.SubsetIncomeDrops:    config.IncomeDropsCSVFileName,
	risk.SubsetInventoryRisks: config.InventoryRisksCSVFileName,
	risk.SubsetCashFlowIssues: config.CashFlowIssuesCSVFileName,
}

// WriteRisk writes the risk score table, every flag subset and the anomalies
func WriteRisk(ctx context.Context, env *Env, state *State) error {
	header := state.Header()
	if err := env.Reporter.WriteTable(ctx, config.RiskScoresCSVFileName, report.RiskTable(header, state.Periods)); err != nil {
		return err
	}

	flagger := risk.NewFlagger(env.Config.Risk, env.Config.Flags)
	for _, rule := range flagger.Rules() {
		t := report.SubsetTable(header, state.Periods, rule)
		if err := env.Reporter.WriteTable(ctx, subsetFiles[rule.Name], t); err != nil {
			return err
		}
		state.Counts["flag_"+rule.Name] = len(t.Rows)
		env.Metrics.RecordFlagged(ctx, rule.Name, len(t.Rows))
	}

	return env.Reporter.WriteTable(ctx, config.AnomaliesCSVFileName, report.AnomaliesTable(header, state.Periods))
}

// WriteSectors writes both sector tables and, when enabled, the workbook
func WriteSectors(ctx context.Context, env *Env, state *State) error {
	if err := env.Reporter.WriteTable(ctx, config.SectorCSVFileName, report.SectorTable(state.Sectors)); err != nil {
		return err
	}
	if err := env.Reporter.WriteTable(ctx, config.SectorDetailCSVFileName, report.SectorDetailTable(state.Sectors)); err != nil {
		return err
	}
	if !env.Config.Report.Workbook {
		return nil
	}
	return env.Reporter.WriteSectorWorkbook(ctx, config.SectorWorkbookFileName, state.Sectors)
}

// WriteValuation writes the rows passing the multiples filter
func WriteValuation(ctx context.Context, env *Env, state *State) error {
	return env.Reporter.WriteTable(ctx, config.ValuationCSVFileName, report.ValuationTable(state.Header(), state.Valuable))
}

// WriteForecast writes the revenue forecast, expense projection and scenarios
func WriteForecast(ctx context.Context, env *Env, state *State) error {
	if state.Forecast != nil {
		if err := env.Reporter.WriteTable(ctx, config.RevenueForecastFileName, report.RevenueForecastTable(state.Forecast)); err != nil {
			return err
		}
	}
	if state.Expenses != nil {
		if err := env.Reporter.WriteTable(ctx, config.ExpenseProjectionFileName, report.ExpenseTable(state.Expenses)); err != nil {
			return err
		}
	}
	if state.Scenarios != nil {
		return env.Reporter.WriteTable(ctx, config.ScenarioFileName, report.ScenarioTable(*state.Scenarios))
	}
	return nil
}

// chart records a rendered chart, logging charts with nothing to draw
func chart(ctx context.Context, env *Env, name string, render func() (string, error)) error {
	path, err := render()
	if errors.Is(err, charts.ErrNoData) {
		env.Logger.WarnContext(ctx, "Chart skipped", slog.String("chart", name), slog.String("reason", err.Error()))
		return nil
	}
	if err != nil {
		return err
	}
	env.Reporter.RecordChart(ctx, name, path)
	return nil
}

// pairs returns the points where both ratios are defined
func pairs(periods []domain.CompanyPeriod, xName, yName string) plotter.XYs {
	var pts plotter.XYs
	for i := range periods {
		x, _ := ratios.Lookup(periods[i].Ratios, xName)
		y, _ := ratios.Lookup(periods[i].Ratios, yName)
		if x.Valid && y.Valid {
			pts = append(pts, plotter.XY{X: x.Float64, Y: y.Float64})
		}
	}
	return pts
}

func ratioValues(periods []domain.CompanyPeriod, name string) []float64 {
	var out []float64
	for i := range periods {
		if v, _ := ratios.Lookup(periods[i].Ratios, name); v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

const histogramBins = 30

// WriteSectorCharts renders the sector bar, box, scatter and histograms
func WriteSectorCharts(ctx context.Context, env *Env, state *State) error {
	if env.Charts == nil {
		return nil
	}
	r := env.Charts

	groups := sector.GroupValues(state.Periods, domain.RatioNetMargin)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	medians := make([]float64, len(names))
	for i, name := range names {
		medians[i] = sector.Median(groups[name])
	}

	renders := []struct {
		name   string
		render func() (string, error)
	}{
		{charts.MedianNetMarginChart, func() (string, error) {
			return r.Bar(charts.MedianNetMarginChart, "Median Net Margin by Sector", domain.RatioNetMargin, names, medians)
		}},
		{charts.DebtToEquityBoxChart, func() (string, error) {
			return r.Box(charts.DebtToEquityBoxChart, "Debt-to-Equity by Sector", domain.RatioDebtToEquity,
				sector.GroupValues(state.Periods, domain.RatioDebtToEquity))
		}},
		{charts.ROEvsNetMarginChart, func() (string, error) {
			return r.Scatter(charts.ROEvsNetMarginChart, "ROE vs Net Margin", domain.RatioNetMargin, domain.RatioROE,
				pairs(state.Periods, domain.RatioNetMargin, domain.RatioROE))
		}},
		{charts.DebtToEquityHistChart, func() (string, error) {
			return r.Histogram(charts.DebtToEquityHistChart, "Debt-to-Equity Distribution", domain.RatioDebtToEquity,
				ratioValues(state.Periods, domain.RatioDebtToEquity), histogramBins)
		}},
		{charts.InterestCoverageChart, func() (string, error) {
			return r.Histogram(charts.InterestCoverageChart, "Interest Coverage Distribution", domain.RatioInterestCoverage,
				ratioValues(state.Periods, domain.RatioInterestCoverage), histogramBins)
		}},
	}
	for _, c := range renders {
		if err := chart(ctx, env, c.name, c.render); err != nil {
			return err
		}
	}
	return nil
}

// WriteRiskCharts renders the anomaly feature space
func WriteRiskCharts(ctx context.Context, env *Env, state *State) error {
	if env.Charts == nil || state.Anomalies == nil || len(state.Anomalies.Features) < 3 {
		return nil
	}
	features := state.Anomalies.Features[:3]

	var points []charts.Point3
	for i := range state.Periods {
		if state.Anomalies.Labels[i] == domain.AnomalyUnscored {
			continue
		}
		var xyz [3]float64
		for j, f := range features {
			v, _ := ratios.Lookup(state.Periods[i].Ratios, f)
			xyz[j] = v.Float64
		}
		points = append(points, charts.Point3{
			X: xyz[0], Y: xyz[1], Z: xyz[2],
			Anomalous: state.Anomalies.Labels[i].IsAnomalous(),
		})
	}

	return chart(ctx, env, charts.AnomalyScatterChart, func() (string, error) {
		return env.Charts.Scatter3D(charts.AnomalyScatterChart, "Anomaly Detection", [3]string(features), points)
	})
}

// WriteValuationCharts renders the P/E box plot and the P/B vs P/E scatter
func WriteValuationCharts(ctx context.Context, env *Env, state *State) error {
	if env.Charts == nil {
		return nil
	}

	pe := make(map[string][]float64)
	var pts plotter.XYs
	for _, m := range state.Valuable {
		if s := m.Period.Sector(); s != "" {
			pe[s] = append(pe[s], m.PE.Float64)
		}
		pts = append(pts, plotter.XY{X: m.PE.Float64, Y: m.PB.Float64})
	}

	if err := chart(ctx, env, charts.PEBoxChart, func() (string, error) {
		return env.Charts.Box(charts.PEBoxChart, "P/E Ratio by Sector", "PE Ratio", pe)
	}); err != nil {
		return err
	}
	return chart(ctx, env, charts.PBvsPEChart, func() (string, error) {
		return env.Charts.Scatter(charts.PBvsPEChart, "P/B vs P/E", "PE Ratio", "PB Ratio", pts)
	})
}

// WriteForecastChart renders the revenue history and forecasts
func WriteForecastChart(ctx context.Context, env *Env, state *State) error {
	if env.Charts == nil || state.Forecast == nil {
		return nil
	}
	return chart(ctx, env, charts.RevenueForecastChart, func() (string, error) {
		return env.Charts.Forecast(charts.RevenueForecastChart, state.Forecast)
	})
}
