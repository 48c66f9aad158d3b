package valuation

import "math"

// PresentValue discounts cashFlows[t-1] at rate for t = 1..n
func PresentValue(cashFlows []float64, rate float64) float64 {
	var pv float64
	for i, cf := range cashFlows {
		pv += cf / math.Pow(1+rate, float64(i+1))
	}
	return pv
}
