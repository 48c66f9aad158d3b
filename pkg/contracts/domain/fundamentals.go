package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names referenced verbatim from the NYSE dataset
const (
	ColTickerSymbol      = "Ticker Symbol"
	ColPeriodEnding      = "Period Ending"
	ColTotalRevenue      = "Total Revenue"
	ColCostOfRevenue     = "Cost of Revenue"
	ColGrossProfit       = "Gross Profit"
	ColOperatingIncome   = "Operating Income"
	ColNetIncome         = "Net Income"
	ColCurrentAssets     = "Total Current Assets"
	ColCurrentLiab       = "Total Current Liabilities"
	ColInventory         = "Inventory"
	ColTotalAssets       = "Total Assets"
	ColTotalLiabilities  = "Total Liabilities"
	ColTotalEquity       = "Total Equity"
	ColLongTermDebt      = "Long-Term Debt"
	ColRetainedEarnings  = "Retained Earnings"
	ColEBIT              = "Earnings Before Interest and Tax"
	ColInterestExpense   = "Interest Expense"
	ColOperatingCashFlow = "Net Cash Flow-Operating"
	ColResearchDev       = "Research and Development"
	ColEPS               = "Earnings Per Share"
	ColSharesOutstanding = "Estimated Shares Outstanding"
	ColCashEquivalents   = "Cash and Cash Equivalents"
)

// FinancialRecord is one company-period row of the fundamentals table.
// Every statement field is nullable: an empty or unparseable cell is null,
// never zero.
type FinancialRecord struct {
	Ticker       string    `json:"ticker" validate:"required"`
	PeriodEnding time.Time `json:"period_ending"` // zero when the source date is unparseable

	TotalRevenue           decimal.NullDecimal `json:"total_revenue"`
	CostOfRevenue          decimal.NullDecimal `json:"cost_of_revenue"`
	GrossProfit            decimal.NullDecimal `json:"gross_profit"`
	OperatingIncome        decimal.NullDecimal `json:"operating_income"`
	NetIncome              decimal.NullDecimal `json:"net_income"`
	TotalCurrentAssets     decimal.NullDecimal `json:"total_current_assets"`
	TotalCurrentLiab       decimal.NullDecimal `json:"total_current_liabilities"`
	Inventory              decimal.NullDecimal `json:"inventory"`
	TotalAssets            decimal.NullDecimal `json:"total_assets"`
	TotalLiabilities       decimal.NullDecimal `json:"total_liabilities"`
	TotalEquity            decimal.NullDecimal `json:"total_equity"`
	LongTermDebt           decimal.NullDecimal `json:"long_term_debt"`
	RetainedEarnings       decimal.NullDecimal `json:"retained_earnings"`
	EBIT                   decimal.NullDecimal `json:"ebit"`
	InterestExpense        decimal.NullDecimal `json:"interest_expense"`
	OperatingCashFlow      decimal.NullDecimal `json:"operating_cash_flow"`
	ResearchAndDevelopment decimal.NullDecimal `json:"research_and_development"`
	EarningsPerShare       decimal.NullDecimal `json:"earnings_per_share"`
	SharesOutstanding      decimal.NullDecimal `json:"estimated_shares_outstanding"`
	CashAndEquivalents     decimal.NullDecimal `json:"cash_and_equivalents"`

	// Raw holds the source cells aligned with FundamentalsTable.Header
	Raw []string `json:"-"`
}

// HasPeriod reports whether the period ending date was parsed
func (r FinancialRecord) HasPeriod() bool {
	return !r.PeriodEnding.IsZero()
}

// FundamentalsTable is the loaded fundamentals file with its original header
type FundamentalsTable struct {
	Header  []string
	Records []FinancialRecord
}

// Len returns the number of records
func (t *FundamentalsTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// FieldSpec binds a dataset column to a statement field of FinancialRecord
type FieldSpec struct {
	Column string
	Field  func(*FinancialRecord) *decimal.NullDecimal
}

// FinancialFields lists the statement columns the toolkit understands.
// Columns not listed here are carried only in Raw.
var FinancialFields = []FieldSpec{
	{ColTotalRevenue, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalRevenue }},
	{ColCostOfRevenue, func(r *FinancialRecord) *decimal.NullDecimal { return &r.CostOfRevenue }},
	{ColGrossProfit, func(r *FinancialRecord) *decimal.NullDecimal { return &r.GrossProfit }},
	{ColOperatingIncome, func(r *FinancialRecord) *decimal.NullDecimal { return &r.OperatingIncome }},
	{ColNetIncome, func(r *FinancialRecord) *decimal.NullDecimal { return &r.NetIncome }},
	{ColCurrentAssets, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalCurrentAssets }},
	{ColCurrentLiab, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalCurrentLiab }},
	{ColInventory, func(r *FinancialRecord) *decimal.NullDecimal { return &r.Inventory }},
	{ColTotalAssets, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalAssets }},
	{ColTotalLiabilities, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalLiabilities }},
	{ColTotalEquity, func(r *FinancialRecord) *decimal.NullDecimal { return &r.TotalEquity }},
	{ColLongTermDebt, func(r *FinancialRecord) *decimal.NullDecimal { return &r.LongTermDebt }},
	{ColRetainedEarnings, func(r *FinancialRecord) *decimal.NullDecimal { return &r.RetainedEarnings }},
	{ColEBIT, func(r *FinancialRecord) *decimal.NullDecimal { return &r.EBIT }},
	{ColInterestExpense, func(r *FinancialRecord) *decimal.NullDecimal { return &r.InterestExpense }},
	{ColOperatingCashFlow, func(r *FinancialRecord) *decimal.NullDecimal { return &r.OperatingCashFlow }},
	{ColResearchDev, func(r *FinancialRecord) *decimal.NullDecimal { return &r.ResearchAndDevelopment }},
	{ColEPS, func(r *FinancialRecord) *decimal.NullDecimal { return &r.EarningsPerShare }},
	{ColSharesOutstanding, func(r *FinancialRecord) *decimal.NullDecimal { return &r.SharesOutstanding }},
	{ColCashEquivalents, func(r *FinancialRecord) *decimal.NullDecimal { return &r.CashAndEquivalents }},
}

// LookupField returns the field binding for a column name
func LookupField(column string) (FieldSpec, bool) {
	for _, f := range FinancialFields {
		if f.Column == column {
			return f, true
		}
	}
	return FieldSpec{}, false
}
