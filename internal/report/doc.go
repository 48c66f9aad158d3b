// Package report turns analysis results into output tables and writes them
// through the exporter. It holds no business logic: every value it writes
// was computed by the ratios, risk, sector, forecast or valuation packages.
package report
