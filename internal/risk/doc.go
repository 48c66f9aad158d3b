// Package risk scores company-periods with weighted rules and selects the
// operational risk subsets written by the risk report.
package risk
