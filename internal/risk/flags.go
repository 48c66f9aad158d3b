package risk

import (
	"nysecli/internal/config"
	"nysecli/pkg/contracts/domain"
)

// Subset names, also used as metric labels
const (
	SubsetHighRisk       = "high_risk"
	SubsetDebtRisks      = "debt_risks"
	SubsetHighDebt       = "high_debt"
	SubsetIncomeDrops    = "income_drops"
	SubsetInventoryRisks = "inventory_risks"
	SubsetCashFlowIssues = "cash_flow_issues"
)

// Rule selects the periods of one subset
type Rule struct {
	Name  string
	Match func(p *domain.CompanyPeriod) bool
}

// Flagger builds the subset rules from configuration
type Flagger struct {
	risk  config.RiskConfig
	flags config.FlagsConfig
}

// NewFlagger creates a flagger
func NewFlagger(risk config.RiskConfig, flags config.FlagsConfig) *Flagger {
	return &Flagger{risk: risk, flags: flags}
}

// Rules returns every subset rule in report order
func (f *Flagger) Rules() []Rule {
	return []Rule{
		{SubsetHighRisk, f.distressed},
		{SubsetDebtRisks, func(p *domain.CompanyPeriod) bool { return f.highDebt(p) || f.lowCoverage(p) }},
		{SubsetHighDebt, f.highDebt},
		{SubsetIncomeDrops, f.incomeDrop},
		{SubsetInventoryRisks, f.inventoryBuildUp},
		{SubsetCashFlowIssues, cashFlowIssue},
	}
}

// Rule returns the rule with the given subset name
func (f *Flagger) Rule(name string) (Rule, bool) {
	for _, r := range f.Rules() {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Filter returns the periods matching rule, in input order
func Filter(periods []domain.CompanyPeriod, rule Rule) []domain.CompanyPeriod {
	var out []domain.CompanyPeriod
	for i := range periods {
		if rule.Match(&periods[i]) {
			out = append(out, periods[i])
		}
	}
	return out
}

func (f *Flagger) distressed(p *domain.CompanyPeriod) bool {
	return p.Ratios.AltmanZ.Valid && p.Ratios.AltmanZ.Float64 < f.risk.AltmanThreshold
}

func (f *Flagger) highDebt(p *domain.CompanyPeriod) bool {
	return p.Ratios.DebtToEquity.Valid && p.Ratios.DebtToEquity.Float64 > f.risk.LeverageThreshold
}

func (f *Flagger) lowCoverage(p *domain.CompanyPeriod) bool {
	return p.Ratios.InterestCoverage.Valid && p.Ratios.InterestCoverage.Float64 < f.flags.InterestCoverageMin
}

func (f *Flagger) incomeDrop(p *domain.CompanyPeriod) bool {
	g := p.Growth.NetIncomeChange
	return g.Valid && g.Float64 < f.flags.IncomeDropMax
}

// inventoryBuildUp is inventory growing faster than the bound while revenue
// growth stays under its bound
func (f *Flagger) inventoryBuildUp(p *domain.CompanyPeriod) bool {
	inv, rev := p.Growth.InventoryChange, p.Growth.RevenueGrowth
	return inv.Valid && rev.Valid && inv.Float64 > f.flags.InventoryGrowthMin && rev.Float64 < f.flags.RevenueGrowthMax
}

// cashFlowIssue is a profitable period with negative operating cash flow
func cashFlowIssue(p *domain.CompanyPeriod) bool {
	ni, ocf := p.Record.NetIncome, p.Record.OperatingCashFlow
	return ni.Valid && ocf.Valid && ni.Decimal.IsPositive() && ocf.Decimal.IsNegative()
}
