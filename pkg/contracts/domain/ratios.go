package domain

import "database/sql"

// Ratio display names as they appear in reports and configuration
const (
	RatioNetMargin           = "Net Margin"
	RatioROE                 = "ROE"
	RatioDebtToEquity        = "Debt-to-Equity"
	RatioLiabilitiesToEquity = "Liabilities to Equity"
	RatioCurrentRatio        = "Current Ratio"
	RatioQuickRatio          = "Quick Ratio"
	RatioGrossMargin         = "Gross Margin"
	RatioOperatingMargin     = "Operating Margin"
	RatioDebtRatio           = "Debt Ratio"
	RatioAssetTurnover       = "Asset Turnover"
	RatioInventoryTurnover   = "Inventory Turnover"
	RatioInterestCoverage    = "Interest Coverage"
	RatioWorkingCapital      = "Working Capital"
	RatioAltmanZ             = "Altman Z-Score"
)

// RatioNames lists every ratio in report column order
var RatioNames = []string{
	RatioGrossMargin,
	RatioOperatingMargin,
	RatioNetMargin,
	RatioROE,
	RatioCurrentRatio,
	RatioQuickRatio,
	RatioDebtToEquity,
	RatioLiabilitiesToEquity,
	RatioDebtRatio,
	RatioAssetTurnover,
	RatioInventoryTurnover,
	RatioInterestCoverage,
	RatioWorkingCapital,
	RatioAltmanZ,
}

// IsRatioName reports whether name is a known ratio
func IsRatioName(name string) bool {
	for _, n := range RatioNames {
		if n == name {
			return true
		}
	}
	return false
}

// DerivedRatios are computed from a FinancialRecord on every run.
// An invalid value means the ratio is undefined for that record.
type DerivedRatios struct {
	NetMargin           sql.NullFloat64 `json:"net_margin"`
	ROE                 sql.NullFloat64 `json:"roe"`
	DebtToEquity        sql.NullFloat64 `json:"debt_to_equity"`
	LiabilitiesToEquity sql.NullFloat64 `json:"liabilities_to_equity"`
	CurrentRatio        sql.NullFloat64 `json:"current_ratio"`
	QuickRatio          sql.NullFloat64 `json:"quick_ratio"`
	GrossMargin         sql.NullFloat64 `json:"gross_margin"`
	OperatingMargin     sql.NullFloat64 `json:"operating_margin"`
	DebtRatio           sql.NullFloat64 `json:"debt_ratio"`
	AssetTurnover       sql.NullFloat64 `json:"asset_turnover"`
	InventoryTurnover   sql.NullFloat64 `json:"inventory_turnover"`
	InterestCoverage    sql.NullFloat64 `json:"interest_coverage"`
	WorkingCapital      sql.NullFloat64 `json:"working_capital"`
	AltmanZ             sql.NullFloat64 `json:"altman_z"`
}

// GrowthMetrics are period-over-period percentage changes within a ticker
type GrowthMetrics struct {
	RevenueGrowth   sql.NullFloat64 `json:"revenue_growth"`
	InventoryChange sql.NullFloat64 `json:"inventory_change"`
	NetIncomeChange sql.NullFloat64 `json:"net_income_change"`
}

// Growth column names
const (
	GrowthRevenue   = "Revenue Growth"
	GrowthInventory = "Inventory Change"
	GrowthNetIncome = "Net Income Change"
)
