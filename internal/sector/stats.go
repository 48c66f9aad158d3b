package sector

import (
	"database/sql"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Aggregate summarizes the defined values of one ratio within a sector
type Aggregate struct {
	Count  int
	Mean   sql.NullFloat64
	Median sql.NullFloat64
	Std    sql.NullFloat64 // sample standard deviation, undefined below two values
}

// Summarize computes mean, median and sample standard deviation of values
func Summarize(values []float64) Aggregate {
	agg := Aggregate{Count: len(values)}
	if len(values) == 0 {
		return agg
	}
	agg.Mean = defined(stat.Mean(values, nil))
	agg.Median = defined(Median(values))
	if len(values) > 1 {
		agg.Std = defined(stat.StdDev(values, nil))
	}
	return agg
}

// Median returns the middle value, or the mean of the two middle values for
// an even count. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func defined(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
