package domain

import (
	"database/sql"
	"time"
)

// Securities and prices column names
const (
	ColSecurityTicker  = "Ticker symbol"
	ColSecurityName    = "Security"
	ColGICSSector      = "GICS Sector"
	ColGICSSubIndustry = "GICS Sub Industry"

	ColPriceDate   = "date"
	ColPriceSymbol = "symbol"
	ColPriceClose  = "close"
)

// SecurityMeta is static reference data for one listed ticker
type SecurityMeta struct {
	Ticker         string `json:"ticker" csv:"Ticker symbol"`
	Name           string `json:"name" csv:"Security"`
	SECFilings     string `json:"sec_filings" csv:"SEC filings"`
	Sector         string `json:"sector" csv:"GICS Sector"`
	SubIndustry    string `json:"sub_industry" csv:"GICS Sub Industry"`
	Headquarters   string `json:"headquarters" csv:"Address of Headquarters"`
	DateFirstAdded string `json:"date_first_added" csv:"Date first added"`
	CIK            string `json:"cik" csv:"CIK"`
}

// PriceRecord is a daily price bar for one symbol. Empty or non-numeric
// source cells leave the matching field invalid.
type PriceRecord struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"` // zero when the source date is unparseable
	Open   sql.NullFloat64 `json:"open"`
	Close  sql.NullFloat64 `json:"close"`
	Low    sql.NullFloat64 `json:"low"`
	High   sql.NullFloat64 `json:"high"`
	Volume sql.NullFloat64 `json:"volume"`
}

// CompanyPeriod is a fundamentals row enriched by the merge and analysis
// steps. Security and Price are nil when the left join found no match.
type CompanyPeriod struct {
	Record   FinancialRecord
	Security *SecurityMeta
	Price    *PriceRecord
	Ratios   DerivedRatios
	Growth   GrowthMetrics
	Risk     *RiskAssessment
}

// Sector returns the GICS sector or "" when the ticker is unlisted
func (c *CompanyPeriod) Sector() string {
	if c.Security == nil {
		return ""
	}
	return c.Security.Sector
}
