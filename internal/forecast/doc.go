// Package forecast projects a ticker's revenue and derives expense and
// break-even scenarios from the projection.
//
// Two models are fit on the revenue series ordered by period ending:
//
//   - LinearTrend: ordinary least squares on the period index.
//   - DifferencedAR: an AR(1) with intercept on the first differences,
//     integrated back to levels. This is the ARIMA(1,1,0) family.
//
// Both return ErrInsufficientData when the series is too short.
package forecast
