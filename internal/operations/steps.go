package operations

import (
	"context"
	"fmt"
	"log/slog"

	"nysecli/internal/anomaly"
	"nysecli/internal/forecast"
	"nysecli/internal/loader"
	"nysecli/internal/merger"
	"nysecli/internal/ratios"
	"nysecli/internal/risk"
	"nysecli/internal/sector"
	"nysecli/internal/store"
	"nysecli/internal/valuation"
)

// Step IDs
const (
	StepLoad       = "load"
	StepClean      = "clean"
	StepMerge      = "merge"
	StepJoinPrices = "join_prices"
	StepRatios     = "ratios"
	StepGrowth     = "growth"
	StepAnomalies  = "anomalies"
	StepRisk       = "risk"
	StepSectors    = "sectors"
	StepForecast   = "forecast"
	StepValuation  = "valuation"
	StepStore      = "store"
)

// LoadStep reads the input tables concurrently
type LoadStep struct {
	BaseStep
	env     *Env
	sources loader.Sources
}

// NewLoadStep creates the load step for the given sources
func NewLoadStep(env *Env, sources loader.Sources) *LoadStep {
	return &LoadStep{BaseStep: NewBaseStep(StepLoad, "Load Inputs"), env: env, sources: sources}
}

// Validate implements Step
func (s *LoadStep) Validate(state *State) error {
	if s.sources.Fundamentals == "" && s.sources.Securities == "" && s.sources.Prices == "" {
		return NewValidationError(s.ID(), "no input files configured")
	}
	return nil
}

// Execute implements Step
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	ds, err := loader.NewLoader(s.env.Logger).LoadAll(ctx, s.sources)
	if err != nil {
		return err
	}
	state.Dataset = ds
	state.Counts["fundamentals_rows"] = ds.Fundamentals.Len()
	state.Counts["securities_rows"] = len(ds.Securities)
	state.Counts["price_rows"] = len(ds.Prices)
	return nil
}

// CleanStep drops incomplete fundamentals and unlisted prices
type CleanStep struct {
	BaseStep
	env *Env
}

// NewCleanStep creates the clean step
func NewCleanStep(env *Env) *CleanStep {
	return &CleanStep{BaseStep: NewBaseStep(StepClean, "Clean Inputs", StepLoad), env: env}
}

// Validate implements Step
func (s *CleanStep) Validate(state *State) error {
	if state.Dataset == nil {
		return NewValidationError(s.ID(), "dataset not loaded")
	}
	return nil
}

// Execute implements Step
func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	rep := loader.Clean(state.Dataset)
	state.CleanReport = &rep
	state.Counts["dropped_records"] = rep.DroppedRecords
	state.Counts["dropped_prices"] = rep.DroppedPrices
	s.env.Logger.InfoContext(ctx, "Dataset cleaned",
		slog.Int("dropped_records", rep.DroppedRecords),
		slog.Int("dropped_prices", rep.DroppedPrices))
	return nil
}

// requireFundamentals is the Validate of every step working on fundamentals
func requireFundamentals(id string, state *State) error {
	if state.Dataset == nil || state.Dataset.Fundamentals == nil {
		return NewValidationError(id, "fundamentals not loaded")
	}
	return nil
}

// requirePeriods is the Validate of every step after the merge
func requirePeriods(id string, state *State) error {
	if state.Periods == nil {
		return NewValidationError(id, "fundamentals not merged")
	}
	return nil
}

// MergeStep left joins fundamentals with securities
type MergeStep struct {
	BaseStep
	env *Env
}

// NewMergeStep creates the merge step
func NewMergeStep(env *Env) *MergeStep {
	return &MergeStep{BaseStep: NewBaseStep(StepMerge, "Merge Securities", StepLoad), env: env}
}

// Validate implements Step
func (s *MergeStep) Validate(state *State) error { return requireFundamentals(s.ID(), state) }

// Execute implements Step
func (s *MergeStep) Execute(ctx context.Context, state *State) error {
	state.Periods = merger.WithSecurities(state.Dataset.Fundamentals.Records, state.Dataset.Securities)

	matched := 0
	for i := range state.Periods {
		if state.Periods[i].Security != nil {
			matched++
		}
	}
	state.Counts["merged_rows"] = len(state.Periods)
	state.Counts["securities_matched"] = matched
	s.env.Logger.InfoContext(ctx, "Fundamentals merged",
		slog.Int("rows", len(state.Periods)),
		slog.Int("matched", matched))
	return nil
}

// JoinPricesStep attaches the close on each period end date
type JoinPricesStep struct {
	BaseStep
	env *Env
}

// NewJoinPricesStep creates the price join step
func NewJoinPricesStep(env *Env) *JoinPricesStep {
	return &JoinPricesStep{BaseStep: NewBaseStep(StepJoinPrices, "Join Prices", StepMerge), env: env}
}

// Validate implements Step
func (s *JoinPricesStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *JoinPricesStep) Execute(ctx context.Context, state *State) error {
	merger.WithPrices(state.Periods, state.Dataset.Prices)

	matched := 0
	for i := range state.Periods {
		if state.Periods[i].Price != nil {
			matched++
		}
	}
	state.Counts["prices_matched"] = matched
	s.env.Logger.InfoContext(ctx, "Prices joined", slog.Int("matched", matched))
	return nil
}

// RatiosStep derives the financial ratios of every row
type RatiosStep struct {
	BaseStep
	env *Env
}

// NewRatiosStep creates the ratio step
func NewRatiosStep(env *Env) *RatiosStep {
	return &RatiosStep{BaseStep: NewBaseStep(StepRatios, "Compute Ratios", StepMerge), env: env}
}

// Validate implements Step
func (s *RatiosStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *RatiosStep) Execute(ctx context.Context, state *State) error {
	ratios.Apply(state.Periods)
	return nil
}

// GrowthStep computes year over year changes per ticker
type GrowthStep struct {
	BaseStep
	env *Env
}

// NewGrowthStep creates the growth step
func NewGrowthStep(env *Env) *GrowthStep {
	return &GrowthStep{BaseStep: NewBaseStep(StepGrowth, "Compute Growth", StepRatios), env: env}
}

// Validate implements Step
func (s *GrowthStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *GrowthStep) Execute(ctx context.Context, state *State) error {
	ratios.ComputeGrowth(state.Periods)
	return nil
}

// AnomalyStep labels outliers with the isolation forest
type AnomalyStep struct {
	BaseStep
	env      *Env
	detector anomaly.Detector
}

// NewAnomalyStep creates the anomaly step using the configured forest
func NewAnomalyStep(env *Env) *AnomalyStep {
	return &AnomalyStep{
		BaseStep: NewBaseStep(StepAnomalies, "Detect Anomalies", StepRatios),
		env:      env,
		detector: anomaly.NewIsolationForest(env.Config.Anomaly),
	}
}

// WithDetector replaces the outlier model
func (s *AnomalyStep) WithDetector(det anomaly.Detector) *AnomalyStep {
	s.detector = det
	return s
}

// Validate implements Step
func (s *AnomalyStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *AnomalyStep) Execute(ctx context.Context, state *State) error {
	res, err := anomaly.Detect(ctx, state.Periods, s.env.Config.Anomaly.Features, s.detector, s.env.Logger)
	if err != nil {
		return err
	}
	state.Anomalies = res
	state.Counts["anomalies_scored"] = res.Scored
	state.Counts["anomalies_flagged"] = res.Flagged
	s.env.Metrics.RecordFlagged(ctx, "anomaly", res.Flagged)
	return nil
}

// RiskStep scores every row
type RiskStep struct {
	BaseStep
	env *Env
}

// NewRiskStep creates the risk step
func NewRiskStep(env *Env) *RiskStep {
	return &RiskStep{BaseStep: NewBaseStep(StepRisk, "Score Risk", StepAnomalies), env: env}
}

// Validate implements Step
func (s *RiskStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *RiskStep) Execute(ctx context.Context, state *State) error {
	sum := risk.NewScorer(s.env.Config.Risk, s.env.Logger).ScoreAll(ctx, state.Periods, state.Anomalies)
	state.RiskSummary = &sum
	for tier, n := range sum.ByTier {
		if tier != "" {
			state.Counts["risk_"+string(tier)] = n
		}
	}
	return nil
}

// SectorStep aggregates ratios per sector and ranks companies
type SectorStep struct {
	BaseStep
	env *Env
}

// NewSectorStep creates the sector step
func NewSectorStep(env *Env) *SectorStep {
	return &SectorStep{BaseStep: NewBaseStep(StepSectors, "Aggregate Sectors", StepRatios), env: env}
}

// Validate implements Step
func (s *SectorStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *SectorStep) Execute(ctx context.Context, state *State) error {
	state.Sectors = sector.NewAnalyzer(s.env.Logger).Analyze(ctx, state.Periods, sector.DetailedRatios)
	state.Ranking = sector.Rank(state.Periods)
	state.Counts["sectors"] = len(state.Sectors)

	top, bottom := sector.TopBottom(state.Ranking, s.env.Config.Report.TopN)
	for i, r := range top {
		s.env.Logger.InfoContext(ctx, "Top company by net margin",
			slog.Int("rank", i+1),
			slog.String("ticker", r.Ticker),
			slog.String("sector", r.Sector),
			slog.Float64("net_margin", r.NetMargin))
	}
	for i, r := range bottom {
		s.env.Logger.InfoContext(ctx, "Bottom company by net margin",
			slog.Int("rank", len(state.Ranking)-len(bottom)+i+1),
			slog.String("ticker", r.Ticker),
			slog.String("sector", r.Sector),
			slog.Float64("net_margin", r.NetMargin))
	}
	return nil
}

// ForecastStep forecasts revenue and projects expenses and scenarios
type ForecastStep struct {
	BaseStep
	env *Env
}

// NewForecastStep creates the forecast step
func NewForecastStep(env *Env) *ForecastStep {
	return &ForecastStep{BaseStep: NewBaseStep(StepForecast, "Forecast Revenue", StepMerge), env: env}
}

// Validate implements Step
func (s *ForecastStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *ForecastStep) Execute(ctx context.Context, state *State) error {
	f := forecast.NewForecaster(s.env.Config.Forecast, s.env.Logger)

	fc, err := f.Revenue(ctx, state.Periods)
	if err != nil {
		return fmt.Errorf("forecast %s: %w", s.env.Config.Forecast.Ticker, err)
	}
	state.Forecast = fc
	state.Expenses = f.ProjectExpenses(fc)

	sa := f.Scenarios()
	state.Scenarios = &sa
	if sa.BreakEven.Valid {
		s.env.Logger.InfoContext(ctx, "Break-even revenue", slog.Float64("revenue", sa.BreakEven.Float64))
	} else {
		s.env.Logger.WarnContext(ctx, "No break-even revenue",
			slog.Float64("variable_cost_ratio", sa.VariableCostRatio))
	}
	return nil
}

// ValuationStep prices each row at the latest close and runs the DCF and
// Monte Carlo models
type ValuationStep struct {
	BaseStep
	env *Env
}

// NewValuationStep creates the valuation step
func NewValuationStep(env *Env) *ValuationStep {
	return &ValuationStep{BaseStep: NewBaseStep(StepValuation, "Value Companies", StepMerge), env: env}
}

// Validate implements Step
func (s *ValuationStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *ValuationStep) Execute(ctx context.Context, state *State) error {
	cfg := s.env.Config.Valuation

	state.Multiples = valuation.Multiples(state.Periods, merger.LatestClose(state.Dataset.Prices))
	state.Valuable = valuation.Filter(state.Multiples, cfg.MaxPE, cfg.MaxPB)
	state.Counts["valuation_rows"] = len(state.Valuable)

	pv := valuation.PresentValue(cfg.CashFlows, cfg.DiscountRate)
	state.PresentValue = &pv
	s.env.Logger.InfoContext(ctx, "Discounted cash flow",
		slog.Float64("present_value", pv),
		slog.Float64("discount_rate", cfg.DiscountRate))

	series := forecast.RevenueSeries(state.Periods, cfg.Ticker)
	history := make([]float64, len(series))
	for i, p := range series {
		history[i] = p.Value
	}
	sim, err := valuation.MonteCarlo(history, cfg.Simulations, cfg.Seed, cfg.RevenueTarget)
	if err != nil {
		s.env.Logger.WarnContext(ctx, "Monte Carlo skipped",
			slog.String("ticker", cfg.Ticker),
			slog.String("error", err.Error()))
		return nil
	}
	state.Simulation = sim
	s.env.Logger.InfoContext(ctx, "Monte Carlo simulation",
		slog.String("ticker", cfg.Ticker),
		slog.Float64("target", sim.Target),
		slog.Float64("probability", sim.Probability))
	return nil
}

// StoreStep writes the SQLite database and runs the reference queries
type StoreStep struct {
	BaseStep
	env *Env
}

// NewStoreStep creates the store step
func NewStoreStep(env *Env) *StoreStep {
	return &StoreStep{BaseStep: NewBaseStep(StepStore, "Store Database", StepMerge), env: env}
}

// Validate implements Step
func (s *StoreStep) Validate(state *State) error { return requirePeriods(s.ID(), state) }

// Execute implements Step
func (s *StoreStep) Execute(ctx context.Context, state *State) error {
	db, err := store.Open(ctx, s.env.Paths.DatabaseFile, s.env.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.WriteFundamentals(ctx, state.Header(), state.Periods)
	if err != nil {
		return err
	}
	state.Counts["db_fundamentals"] = n

	if n, err = db.WriteSecurities(ctx, state.Dataset.Securities); err != nil {
		return err
	}
	state.Counts["db_securities"] = n

	if n, err = db.WritePrices(ctx, state.Dataset.Prices); err != nil {
		return err
	}
	state.Counts["db_prices"] = n

	ticker := s.env.Config.Store.QueryTicker
	history, err := db.TickerHistory(ctx, ticker)
	if err != nil {
		return err
	}
	for _, h := range history {
		s.env.Logger.InfoContext(ctx, "Ticker history",
			slog.String("ticker", h.Ticker),
			slog.String("period_ending", h.PeriodEnding),
			slog.Float64("total_revenue", h.TotalRevenue.Float64),
			slog.Float64("net_income", h.NetIncome.Float64),
			slog.Float64("stock_price", h.StockPrice.Float64))
	}

	sectors, err := db.SectorAverageRevenue(ctx)
	if err != nil {
		return err
	}
	for _, r := range sectors {
		s.env.Logger.InfoContext(ctx, "Sector average revenue",
			slog.String("sector", r.Sector),
			slog.Float64("avg_revenue", r.AvgRevenue.Float64))
	}

	s.env.Reporter.RecordFile(ctx, s.env.Config.Store.DatabaseFile, db.Path(), "sqlite", state.Counts["db_fundamentals"])
	return nil
}
