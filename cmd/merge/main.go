// Command merge left joins the fundamentals with the securities metadata and, with -prices, the period end close.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandMerge, os.Args[1:]))
}
