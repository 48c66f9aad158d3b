// Package charts renders the report plots as PNG files with gonum/plot.
//
// Every function takes already prepared values. Undefined ratios are
// dropped before plotting and a chart with nothing to draw returns
// ErrNoData without creating a file.
package charts
