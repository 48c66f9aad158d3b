// Command valuation prices the fundamentals at the latest close and runs the discounted cash flow and Monte Carlo models.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandValuation, os.Args[1:]))
}
