package ratios

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"nysecli/pkg/contracts/domain"
)

// Altman Z-Score coefficients
var (
	altmanWorkingCapital   = decimal.RequireFromString("1.2")
	altmanRetainedEarnings = decimal.RequireFromString("1.4")
	altmanEBIT             = decimal.RequireFromString("3.3")
	altmanEquity           = decimal.RequireFromString("0.6")
	altmanRevenue          = decimal.NewFromInt(1)
)

// Compute derives every ratio for rec
func Compute(rec *domain.FinancialRecord) domain.DerivedRatios {
	workingCapital := difference(rec.TotalCurrentAssets, rec.TotalCurrentLiab)

	return domain.DerivedRatios{
		NetMargin:           toFloat(divide(rec.NetIncome, rec.TotalRevenue)),
		ROE:                 toFloat(divide(rec.NetIncome, rec.TotalEquity)),
		DebtToEquity:        toFloat(divide(rec.LongTermDebt, rec.TotalEquity)),
		LiabilitiesToEquity: toFloat(divide(rec.TotalLiabilities, rec.TotalEquity)),
		CurrentRatio:        toFloat(divide(rec.TotalCurrentAssets, rec.TotalCurrentLiab)),
		QuickRatio:          toFloat(divide(difference(rec.TotalCurrentAssets, rec.Inventory), rec.TotalCurrentLiab)),
		GrossMargin:         toFloat(divide(rec.GrossProfit, rec.TotalRevenue)),
		OperatingMargin:     toFloat(divide(rec.OperatingIncome, rec.TotalRevenue)),
		DebtRatio:           toFloat(divide(rec.TotalLiabilities, rec.TotalAssets)),
		AssetTurnover:       toFloat(divide(rec.TotalRevenue, rec.TotalAssets)),
		InventoryTurnover:   toFloat(divide(rec.CostOfRevenue, rec.Inventory)),
		InterestCoverage:    toFloat(divide(rec.EBIT, rec.InterestExpense)),
		WorkingCapital:      toFloat(workingCapital),
		AltmanZ:             toFloat(altmanZ(rec, workingCapital)),
	}
}

// Apply recomputes the ratios of every period in place
func Apply(periods []domain.CompanyPeriod) {
	for i := range periods {
		periods[i].Ratios = Compute(&periods[i].Record)
	}
}

// altmanZ combines five balance-sheet ratios. Any undefined component makes
// the score undefined.
func altmanZ(rec *domain.FinancialRecord, workingCapital decimal.NullDecimal) decimal.NullDecimal {
	terms := []struct {
		weight decimal.Decimal
		value  decimal.NullDecimal
	}{
		{altmanWorkingCapital, divide(workingCapital, rec.TotalAssets)},
		{altmanRetainedEarnings, divide(rec.RetainedEarnings, rec.TotalAssets)},
		{altmanEBIT, divide(rec.EBIT, rec.TotalAssets)},
		{altmanEquity, divide(rec.TotalEquity, rec.TotalLiabilities)},
		{altmanRevenue, divide(rec.TotalRevenue, rec.TotalAssets)},
	}

	z := decimal.Zero
	for _, term := range terms {
		if !term.value.Valid {
			return decimal.NullDecimal{}
		}
		z = z.Add(term.weight.Mul(term.value.Decimal))
	}
	return decimal.NewNullDecimal(z)
}

// divide returns num/den, or null when either side is null or den is zero
func divide(num, den decimal.NullDecimal) decimal.NullDecimal {
	if !num.Valid || !den.Valid || den.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Decimal.Div(den.Decimal))
}

// difference returns a-b, or null when either side is null
func difference(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal.Sub(b.Decimal))
}

func toFloat(d decimal.NullDecimal) sql.NullFloat64 {
	if !d.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: d.Decimal.InexactFloat64(), Valid: true}
}
