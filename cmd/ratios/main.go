// Command ratios derives the financial ratios of every fundamentals row.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandRatios, os.Args[1:]))
}
