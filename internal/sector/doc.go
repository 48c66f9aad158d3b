// Package sector aggregates ratios per GICS sector and ranks companies by
// profitability.
package sector
