// Package loader reads the NYSE fundamentals, securities and price tables
// from CSV and normalizes them into domain types.
//
// Normalization rules applied on every load:
//
//   - tickers are trimmed and upper-cased
//   - dates that cannot be parsed become the zero time rather than an error
//   - empty or non-numeric statement cells become null decimals
//
// A required column missing from a header is fatal and is reported as
// ErrMissingColumn before any row is read. A missing input file is
// reported as ErrMissingFile.
package loader
