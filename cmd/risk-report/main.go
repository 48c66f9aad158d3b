// Command risk-report scores bankruptcy risk, detects anomalies and writes the flag subsets.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandRisk, os.Args[1:]))
}
