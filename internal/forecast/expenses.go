package forecast

import (
	"database/sql"
	"time"
)

// ExpenseRow is the projected income statement of one forecast period
type ExpenseRow struct {
	Date              time.Time
	Revenue           float64
	CostOfRevenue     float64
	ResearchDev       float64
	OperatingExpenses float64
	GrossProfit       float64
	OperatingIncome   float64
	GrossMargin       sql.NullFloat64
	OperatingMargin   sql.NullFloat64
}

// ExpenseProjection holds the projected rows and the R&D trend beyond them
type ExpenseProjection struct {
	Rows         []ExpenseRow
	AvgCOGSRatio sql.NullFloat64
	RDTrend      []float64
}

// ProjectExpenses applies the configured expense ratios to forecast revenue
// and extends the projected R&D with a linear trend
func (f *Forecaster) ProjectExpenses(fc *RevenueForecast) *ExpenseProjection {
	revenue := fc.Projected()
	proj := &ExpenseProjection{Rows: make([]ExpenseRow, len(revenue))}

	var ratioSum float64
	var ratioCount int
	rd := make([]float64, len(revenue))
	for i, rev := range revenue {
		row := ExpenseRow{
			Revenue:           rev,
			CostOfRevenue:     rev * f.cfg.COGSRatio,
			ResearchDev:       rev * f.cfg.RDRatio,
			OperatingExpenses: rev * f.cfg.OpexRatio,
		}
		if i < len(fc.Dates) {
			row.Date = fc.Dates[i]
		}
		row.GrossProfit = row.Revenue - row.CostOfRevenue
		row.OperatingIncome = row.GrossProfit - row.OperatingExpenses
		if rev != 0 {
			row.GrossMargin = sql.NullFloat64{Float64: row.GrossProfit / rev, Valid: true}
			row.OperatingMargin = sql.NullFloat64{Float64: row.OperatingIncome / rev, Valid: true}
			ratioSum += row.CostOfRevenue / rev
			ratioCount++
		}
		proj.Rows[i] = row
		rd[i] = row.ResearchDev
	}
	if ratioCount > 0 {
		proj.AvgCOGSRatio = sql.NullFloat64{Float64: ratioSum / float64(ratioCount), Valid: true}
	}

	if len(rd) > 0 {
		a, b := fitLine(rd)
		proj.RDTrend = make([]float64, f.cfg.RDTrendPeriods)
		for i := range proj.RDTrend {
			proj.RDTrend[i] = a + b*float64(len(rd)+i)
		}
	}
	return proj
}
