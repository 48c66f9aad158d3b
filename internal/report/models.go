package report

import (
	"nysecli/internal/exporter"
	"nysecli/internal/forecast"
	"nysecli/internal/valuation"
)

// ValuationHeaders are the columns appended to the merged table
var ValuationHeaders = []string{"close", "PE Ratio", "PB Ratio"}

// ValuationTable is the merged table of each priced row with its multiples
func ValuationTable(header []string, ms []valuation.Multiple) Table {
	t := Table{Headers: concat(header, SecurityHeaders, ValuationHeaders)}
	for i := range ms {
		p := &ms[i].Period
		t.Rows = append(t.Rows, concat(
			rawCells(&p.Record, len(header)),
			securityCells(p.Security),
			[]string{
				exporter.FormatNullFloat(ms[i].Close),
				exporter.FormatNullFloat(ms[i].PE),
				exporter.FormatNullFloat(ms[i].PB),
			}))
	}
	return t
}

// RevenueForecastTable lists both model forecasts per future period
func RevenueForecastTable(fc *forecast.RevenueForecast) Table {
	t := Table{Headers: []string{"Ticker", "Date", "Linear Trend Forecast", "Differenced AR Forecast"}}
	for i, d := range fc.Dates {
		ar := ""
		if i < len(fc.AR) {
			ar = exporter.FormatFloat(fc.AR[i])
		}
		t.Rows = append(t.Rows, []string{fc.Ticker, exporter.FormatDate(d), exporter.FormatFloat(fc.Linear[i]), ar})
	}
	return t
}

// ExpenseTable is the projected income statement per future period
func ExpenseTable(proj *forecast.ExpenseProjection) Table {
	t := Table{Headers: []string{
		"Date", "Revenue", "Cost of Revenue", "Research and Development", "Operating Expenses",
		"Gross Profit", "Operating Income", "Gross Margin", "Operating Margin",
	}}
	for _, r := range proj.Rows {
		t.Rows = append(t.Rows, []string{
			exporter.FormatDate(r.Date),
			exporter.FormatFloat(r.Revenue),
			exporter.FormatFloat(r.CostOfRevenue),
			exporter.FormatFloat(r.ResearchDev),
			exporter.FormatFloat(r.OperatingExpenses),
			exporter.FormatFloat(r.GrossProfit),
			exporter.FormatFloat(r.OperatingIncome),
			exporter.FormatNullFloat(r.GrossMargin),
			exporter.FormatNullFloat(r.OperatingMargin),
		})
	}
	return t
}

// ScenarioTable lists the profit impact of each revenue scenario
func ScenarioTable(sa forecast.ScenarioAnalysis) Table {
	t := Table{Headers: []string{"Revenue", "Original Profit", "New Profit", "Impact"}}
	for _, s := range sa.Scenarios {
		t.Rows = append(t.Rows, []string{
			exporter.FormatFloat(s.Revenue),
			exporter.FormatFloat(s.OriginalProfit),
			exporter.FormatFloat(s.NewProfit),
			exporter.FormatFloat(s.Impact),
		})
	}
	return t
}
