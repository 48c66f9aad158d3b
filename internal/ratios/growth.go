package ratios

import (
	"database/sql"
	"sort"

	"github.com/shopspring/decimal"

	"nysecli/pkg/contracts/domain"
)

// ComputeGrowth fills the growth metrics of every period in place. Periods
// are grouped by ticker and ordered by period ending; the first period of a
// ticker and periods with an unknown date have undefined growth.
func ComputeGrowth(periods []domain.CompanyPeriod) {
	byTicker := make(map[string][]int)
	for i := range periods {
		periods[i].Growth = domain.GrowthMetrics{}
		if !periods[i].Record.HasPeriod() {
			continue
		}
		t := periods[i].Record.Ticker
		byTicker[t] = append(byTicker[t], i)
	}

	for _, idx := range byTicker {
		sort.SliceStable(idx, func(a, b int) bool {
			return periods[idx[a]].Record.PeriodEnding.Before(periods[idx[b]].Record.PeriodEnding)
		})
		for k := 1; k < len(idx); k++ {
			prev := &periods[idx[k-1]].Record
			cur := &periods[idx[k]].Record
			periods[idx[k]].Growth = domain.GrowthMetrics{
				RevenueGrowth:   PctChange(cur.TotalRevenue, prev.TotalRevenue),
				InventoryChange: PctChange(cur.Inventory, prev.Inventory),
				NetIncomeChange: PctChange(cur.NetIncome, prev.NetIncome),
			}
		}
	}
}

// PctChange returns (cur-prev)/prev, undefined when either value is null or
// prev is zero
func PctChange(cur, prev decimal.NullDecimal) sql.NullFloat64 {
	return toFloat(divide(difference(cur, prev), prev))
}

// GrowthValues returns the growth metrics in report column order
func GrowthValues(g domain.GrowthMetrics) []sql.NullFloat64 {
	return []sql.NullFloat64{g.RevenueGrowth, g.InventoryChange, g.NetIncomeChange}
}

// GrowthNames are the column names matching GrowthValues
var GrowthNames = []string{domain.GrowthRevenue, domain.GrowthInventory, domain.GrowthNetIncome}
