package loader

import (
	"nysecli/pkg/contracts/domain"
)

// CleanReport summarizes what Clean removed
type CleanReport struct {
	DroppedRecords int
	DroppedPrices  int
}

// DropIncomplete returns the records whose listed statement columns are all
// non-null. Unknown column names are ignored.
func DropIncomplete(records []domain.FinancialRecord, columns ...string) []domain.FinancialRecord {
	specs := make([]domain.FieldSpec, 0, len(columns))
	for _, c := range columns {
		if f, ok := domain.LookupField(c); ok {
			specs = append(specs, f)
		}
	}

	kept := make([]domain.FinancialRecord, 0, len(records))
	for i := range records {
		complete := true
		for _, f := range specs {
			if !f.Field(&records[i]).Valid {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// FilterPrices keeps prices whose symbol is a listed security
func FilterPrices(prices []domain.PriceRecord, securities []domain.SecurityMeta) []domain.PriceRecord {
	listed := make(map[string]struct{}, len(securities))
	for _, s := range securities {
		listed[s.Ticker] = struct{}{}
	}

	kept := make([]domain.PriceRecord, 0, len(prices))
	for _, p := range prices {
		if _, ok := listed[p.Symbol]; ok {
			kept = append(kept, p)
		}
	}
	return kept
}

// Clean drops fundamentals without revenue or net income and prices for
// unlisted symbols. The dataset is modified in place.
func Clean(ds *Dataset) CleanReport {
	var report CleanReport
	if ds.Fundamentals != nil {
		before := len(ds.Fundamentals.Records)
		ds.Fundamentals.Records = DropIncomplete(ds.Fundamentals.Records, domain.ColNetIncome, domain.ColTotalRevenue)
		report.DroppedRecords = before - len(ds.Fundamentals.Records)
	}
	if ds.Prices != nil && ds.Securities != nil {
		before := len(ds.Prices)
		ds.Prices = FilterPrices(ds.Prices, ds.Securities)
		report.DroppedPrices = before - len(ds.Prices)
	}
	return report
}
