// Command store loads the dataset into SQLite and runs the reference queries.
package main

import (
	"os"

	"nysecli/internal/app"
	"nysecli/internal/operations"
)

func main() {
	os.Exit(app.Main(operations.CommandStore, os.Args[1:]))
}
