package config

// Application constants for the NYSE analysis toolkit
const (
	// Application Info
	AppName = "nysecli"

	// EnvPrefix namespaces every environment override (NYSE_LOGGING_LEVEL, ...)
	EnvPrefix = "NYSE"

	// ConfigFileEnv names the environment variable holding the YAML config path
	ConfigFileEnv     = "NYSE_CONFIG"
	DefaultConfigFile = "config.yaml"
	DotEnvFile        = ".env"

	// Input files
	FundamentalsFileName = "fundamentals.csv"
	SecuritiesFileName   = "securities.csv"
	PricesFileName       = "prices.csv"
	PricesSplitFileName  = "prices-split-adjusted.csv"

	// Output files
	MergedCSVFileName         = "merged_fundamentals_securities.csv"
	MergedPricesCSVFileName   = "fundamentals_with_prices.csv"
	RatiosCSVFileName         = "fundamentals_with_ratios.csv"
	RiskScoresCSVFileName     = "fundamentals_with_risk_scores.csv"
	HighRiskCSVFileName       = "high_risk_companies.csv"
	DebtRisksCSVFileName      = "debt_risks.csv"
	HighDebtCSVFileName       = "high_debt_companies.csv"
	IncomeDropsCSVFileName    = "income_drops_companies.csv"
	InventoryRisksCSVFileName = "inventory_risks.csv"
	CashFlowIssuesCSVFileName = "cash_flow_issues.csv"
	AnomaliesCSVFileName      = "anomalies.csv"
	SectorCSVFileName         = "sector_analysis.csv"
	SectorDetailCSVFileName   = "sector_analysis_detailed.csv"
	SectorWorkbookFileName    = "sector_analysis.xlsx"
	ValuationCSVFileName      = "valuation_analysis.csv"
	RevenueForecastFileName   = "revenue_forecast.csv"
	ExpenseProjectionFileName = "expense_projections.csv"
	ScenarioFileName          = "scenario_analysis.csv"
	RunSummaryFileName        = "run_summary.json"
	DatabaseFileName          = "nyse_finance.db"

	// Output subdirectories
	ChartsDirName = "charts"
)
