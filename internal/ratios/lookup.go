package ratios

import (
	"database/sql"

	"nysecli/pkg/contracts/domain"
)

var accessors = map[string]func(*domain.DerivedRatios) sql.NullFloat64{
	domain.RatioNetMargin:           func(r *domain.DerivedRatios) sql.NullFloat64 { return r.NetMargin },
	domain.RatioROE:                 func(r *domain.DerivedRatios) sql.NullFloat64 { return r.ROE },
	domain.RatioDebtToEquity:        func(r *domain.DerivedRatios) sql.NullFloat64 { return r.DebtToEquity },
	domain.RatioLiabilitiesToEquity: func(r *domain.DerivedRatios) sql.NullFloat64 { return r.LiabilitiesToEquity },
	domain.RatioCurrentRatio:        func(r *domain.DerivedRatios) sql.NullFloat64 { return r.CurrentRatio },
	domain.RatioQuickRatio:          func(r *domain.DerivedRatios) sql.NullFloat64 { return r.QuickRatio },
	domain.RatioGrossMargin:         func(r *domain.DerivedRatios) sql.NullFloat64 { return r.GrossMargin },
	domain.RatioOperatingMargin:     func(r *domain.DerivedRatios) sql.NullFloat64 { return r.OperatingMargin },
	domain.RatioDebtRatio:           func(r *domain.DerivedRatios) sql.NullFloat64 { return r.DebtRatio },
	domain.RatioAssetTurnover:       func(r *domain.DerivedRatios) sql.NullFloat64 { return r.AssetTurnover },
	domain.RatioInventoryTurnover:   func(r *domain.DerivedRatios) sql.NullFloat64 { return r.InventoryTurnover },
	domain.RatioInterestCoverage:    func(r *domain.DerivedRatios) sql.NullFloat64 { return r.InterestCoverage },
	domain.RatioWorkingCapital:      func(r *domain.DerivedRatios) sql.NullFloat64 { return r.WorkingCapital },
	domain.RatioAltmanZ:             func(r *domain.DerivedRatios) sql.NullFloat64 { return r.AltmanZ },
}

// Lookup returns the ratio with the given display name. ok is false for an
// unknown name.
func Lookup(r domain.DerivedRatios, name string) (value sql.NullFloat64, ok bool) {
	get, ok := accessors[name]
	if !ok {
		return sql.NullFloat64{}, false
	}
	return get(&r), true
}

// Values returns the ratios in domain.RatioNames order
func Values(r domain.DerivedRatios) []sql.NullFloat64 {
	out := make([]sql.NullFloat64, len(domain.RatioNames))
	for i, name := range domain.RatioNames {
		out[i] = accessors[name](&r)
	}
	return out
}
