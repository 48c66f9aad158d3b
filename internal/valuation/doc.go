// Package valuation prices companies with market multiples, a discounted
// cash flow and a seeded Monte Carlo revenue simulation.
package valuation
