package forecast

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when a model has too few observations
var ErrInsufficientData = errors.New("insufficient data")

// Minimum observations per model
const (
	MinLinearPoints = 2
	MinARPoints     = 3
)

// LinearTrend fits y = a + b*t on t = 0..n-1 and predicts the next k values
func LinearTrend(values []float64, k int) ([]float64, error) {
	if len(values) < MinLinearPoints {
		return nil, fmt.Errorf("linear trend needs %d points, have %d: %w", MinLinearPoints, len(values), ErrInsufficientData)
	}
	a, b := fitLine(values)

	out := make([]float64, k)
	for i := range out {
		out[i] = a + b*float64(len(values)+i)
	}
	return out, nil
}

// DifferencedAR fits d_t = c + phi*d_(t-1) on the first differences of
// values and integrates k forecast steps from the last observation. With a
// single lagged pair, or lagged differences that do not vary, phi is zero
// and the series drifts by the mean difference.
func DifferencedAR(values []float64, k int) ([]float64, error) {
	if len(values) < MinARPoints {
		return nil, fmt.Errorf("differenced AR needs %d points, have %d: %w", MinARPoints, len(values), ErrInsufficientData)
	}

	diffs := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs[i-1] = values[i] - values[i-1]
	}

	c, phi := stat.Mean(diffs, nil), 0.0
	lagged, current := diffs[:len(diffs)-1], diffs[1:]
	if len(lagged) >= 2 && stat.Variance(lagged, nil) > 0 {
		c, phi = stat.LinearRegression(lagged, current, nil, false)
	}

	out := make([]float64, k)
	level, d := values[len(values)-1], diffs[len(diffs)-1]
	for i := range out {
		d = c + phi*d
		level += d
		out[i] = level
	}
	return out, nil
}

// fitLine regresses values on their index. A single value gives a flat line.
func fitLine(values []float64) (alpha, beta float64) {
	if len(values) < 2 {
		if len(values) == 1 {
			return values[0], 0
		}
		return 0, 0
	}
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	return stat.LinearRegression(x, values, nil, false)
}
