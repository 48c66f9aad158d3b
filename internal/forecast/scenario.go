package forecast

import "database/sql"

// Scenario is the profit at one revenue level before and after a cost increase
type Scenario struct {
	Revenue        float64
	OriginalProfit float64
	NewProfit      float64
	Impact         float64
}

// ScenarioAnalysis is the break-even revenue and the revenue scenarios
type ScenarioAnalysis struct {
	FixedCosts        float64
	VariableCostRatio float64
	BreakEven         sql.NullFloat64 // undefined when the variable cost ratio is 1 or more
	Scenarios         []Scenario
}

// BreakEven returns fixed / (1 - ratio), undefined for ratio >= 1
func BreakEven(fixed, ratio float64) sql.NullFloat64 {
	if ratio >= 1 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: fixed / (1 - ratio), Valid: true}
}

// Scenarios evaluates the configured revenue levels under the configured
// variable cost increase
func (f *Forecaster) Scenarios() ScenarioAnalysis {
	ratio := f.cfg.VariableCostRatio
	increased := ratio * (1 + f.cfg.CostIncrease)

	sa := ScenarioAnalysis{
		FixedCosts:        f.cfg.FixedCosts,
		VariableCostRatio: ratio,
		BreakEven:         BreakEven(f.cfg.FixedCosts, ratio),
		Scenarios:         make([]Scenario, len(f.cfg.Scenarios)),
	}
	for i, rev := range f.cfg.Scenarios {
		orig := rev*(1-ratio) - f.cfg.FixedCosts
		next := rev*(1-increased) - f.cfg.FixedCosts
		sa.Scenarios[i] = Scenario{Revenue: rev, OriginalProfit: orig, NewProfit: next, Impact: next - orig}
	}
	return sa
}
