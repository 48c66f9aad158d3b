// Command forecast forecasts a ticker's revenue and projects its expenses and cost scenarios.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandForecast, os.Args[1:]))
}
