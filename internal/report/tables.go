package report

import (
	"database/sql"
	"math"

	"nysecli/internal/exporter"
	"nysecli/internal/ratios"
	"nysecli/internal/risk"
	"nysecli/internal/sector"
	"nysecli/pkg/contracts/domain"
)

// Table is a header and its string rows
type Table struct {
	Headers []string
	Rows    [][]string
}

// SecurityHeaders are the securities columns appended by the merge
var SecurityHeaders = []string{
	domain.ColSecurityTicker, domain.ColSecurityName, "SEC filings", domain.ColGICSSector,
	domain.ColGICSSubIndustry, "Address of Headquarters", "Date first added", "CIK",
}

// PriceHeaders are the price columns appended by the price join
var PriceHeaders = []string{domain.ColPriceDate, domain.ColPriceSymbol, "open", domain.ColPriceClose, "low", "high", "volume"}

// RiskHeaders are the columns appended to the risk score table
var RiskHeaders = []string{"Distressed", "High Leverage", "Anomaly", "Anomaly Score", "Risk Score", "Risk Level"}

// rawCells returns the source cells padded to the header width
func rawCells(rec *domain.FinancialRecord, width int) []string {
	cells := make([]string, width)
	copy(cells, rec.Raw)
	return cells
}

func securityCells(s *domain.SecurityMeta) []string {
	if s == nil {
		return make([]string, len(SecurityHeaders))
	}
	return []string{s.Ticker, s.Name, s.SECFilings, s.Sector, s.SubIndustry, s.Headquarters, s.DateFirstAdded, s.CIK}
}

func priceCells(p *domain.PriceRecord) []string {
	if p == nil {
		return make([]string, len(PriceHeaders))
	}
	return []string{
		exporter.FormatDate(p.Date), p.Symbol,
		exporter.FormatNullFloat(p.Open), exporter.FormatNullFloat(p.Close),
		exporter.FormatNullFloat(p.Low), exporter.FormatNullFloat(p.High),
		exporter.FormatNullFloat(p.Volume),
	}
}

func ratioCells(r domain.DerivedRatios) []string {
	values := ratios.Values(r)
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = exporter.FormatNullFloat(v)
	}
	return cells
}

func growthCells(g domain.GrowthMetrics) []string {
	values := ratios.GrowthValues(g)
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = exporter.FormatNullFloat(v)
	}
	return cells
}

func riskCells(a *domain.RiskAssessment) []string {
	if a == nil {
		return make([]string, len(RiskHeaders))
	}
	return []string{
		exporter.FormatBool(a.Distressed),
		exporter.FormatBool(a.HighLeverage),
		a.Anomaly.String(),
		exporter.FormatNullFloat(a.AnomalyScore),
		exporter.FormatInt(a.Score),
		string(a.Tier),
	}
}

func concat(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// FundamentalsTable re-emits the input columns
func FundamentalsTable(header []string, periods []domain.CompanyPeriod) Table {
	t := Table{Headers: append([]string(nil), header...)}
	for i := range periods {
		t.Rows = append(t.Rows, rawCells(&periods[i].Record, len(header)))
	}
	return t
}

// MergedTable is the fundamentals columns followed by the securities columns
func MergedTable(header []string, periods []domain.CompanyPeriod) Table {
	t := Table{Headers: concat(header, SecurityHeaders)}
	for i := range periods {
		p := &periods[i]
		t.Rows = append(t.Rows, concat(rawCells(&p.Record, len(header)), securityCells(p.Security)))
	}
	return t
}

// PricesTable is the merged table followed by the joined price bar
func PricesTable(header []string, periods []domain.CompanyPeriod) Table {
	t := Table{Headers: concat(header, SecurityHeaders, PriceHeaders)}
	for i := range periods {
		p := &periods[i]
		t.Rows = append(t.Rows, concat(rawCells(&p.Record, len(header)), securityCells(p.Security), priceCells(p.Price)))
	}
	return t
}

// RatiosTable is the fundamentals columns followed by every derived ratio
func RatiosTable(header []string, periods []domain.CompanyPeriod) Table {
	t := Table{Headers: concat(header, domain.RatioNames)}
	for i := range periods {
		p := &periods[i]
		t.Rows = append(t.Rows, concat(rawCells(&p.Record, len(header)), ratioCells(p.Ratios)))
	}
	return t
}

// AnalysisTable is the merged table followed by ratios and growth
func AnalysisTable(header []string, periods []domain.CompanyPeriod) Table {
	t := Table{Headers: concat(header, SecurityHeaders, domain.RatioNames, ratios.GrowthNames)}
	for i := range periods {
		p := &periods[i]
		t.Rows = append(t.Rows, concat(
			rawCells(&p.Record, len(header)), securityCells(p.Security), ratioCells(p.Ratios), growthCells(p.Growth)))
	}
	return t
}

// RiskTable is the analysis table followed by the risk assessment
func RiskTable(header []string, periods []domain.CompanyPeriod) Table {
	t := AnalysisTable(header, periods)
	t.Headers = concat(t.Headers, RiskHeaders)
	for i := range periods {
		t.Rows[i] = concat(t.Rows[i], riskCells(periods[i].Risk))
	}
	return t
}

// DebtRisksTable is the narrow debt risk listing
func DebtRisksTable(periods []domain.CompanyPeriod) Table {
	t := Table{Headers: []string{domain.ColTickerSymbol, domain.ColSecurityName, domain.RatioDebtToEquity, domain.RatioInterestCoverage}}
	for i := range periods {
		p := &periods[i]
		name := ""
		if p.Security != nil {
			name = p.Security.Name
		}
		t.Rows = append(t.Rows, []string{
			p.Record.Ticker, name,
			exporter.FormatNullFloat(p.Ratios.DebtToEquity),
			exporter.FormatNullFloat(p.Ratios.InterestCoverage),
		})
	}
	return t
}

// SubsetTable selects the rows of one flag subset
func SubsetTable(header []string, periods []domain.CompanyPeriod, rule risk.Rule) Table {
	matched := risk.Filter(periods, rule)
	if rule.Name == risk.SubsetDebtRisks {
		return DebtRisksTable(matched)
	}
	if rule.Name == risk.SubsetHighRisk {
		return RiskTable(header, matched)
	}
	return AnalysisTable(header, matched)
}

// AnomaliesTable lists the rows flagged by the outlier model
func AnomaliesTable(header []string, periods []domain.CompanyPeriod) Table {
	var flagged []domain.CompanyPeriod
	for i := range periods {
		if periods[i].Risk != nil && periods[i].Risk.Anomaly.IsAnomalous() {
			flagged = append(flagged, periods[i])
		}
	}
	return RiskTable(header, flagged)
}

// SectorTable is the average of each basic ratio per sector
func SectorTable(summaries []sector.Summary) Table {
	t := Table{Headers: []string{domain.ColGICSSector}}
	for _, name := range sector.BasicRatios {
		t.Headers = append(t.Headers, "Average "+name)
	}
	for _, s := range summaries {
		row := []string{s.Sector}
		for _, name := range sector.BasicRatios {
			row = append(row, exporter.FormatNullFloat(s.Ratios[name].Mean))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SectorDetailTable has the mean, median and std of each detailed ratio
// rounded to three decimals, and the number of distinct companies
func SectorDetailTable(summaries []sector.Summary) Table {
	t := Table{Headers: []string{domain.ColGICSSector}}
	for _, name := range sector.DetailedRatios {
		t.Headers = append(t.Headers, name+" Mean", name+" Median", name+" Std")
	}
	t.Headers = append(t.Headers, "Company Count")

	for _, s := range summaries {
		row := []string{s.Sector}
		for _, name := range sector.DetailedRatios {
			agg := s.Ratios[name]
			row = append(row, round3(agg.Mean), round3(agg.Median), round3(agg.Std))
		}
		row = append(row, exporter.FormatInt(s.Companies))
		t.Rows = append(t.Rows, row)
	}
	return t
}

func round3(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return exporter.FormatFloat(math.Round(v.Float64*1000) / 1000)
}
