// Command sector-report aggregates ratios per GICS sector, ranks companies by net margin and renders the sector charts.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandSectors, os.Args[1:]))
}
