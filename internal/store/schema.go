package store

import (
	"fmt"
	"strings"
)

// Table names
const (
	FundamentalsTable = "fundamentals"
	SecuritiesTable   = "securities"
	PricesTable       = "prices"
)

// IndexColumn replaces the unnamed leading column of the fundamentals file
const IndexColumn = "id"

// columnType is the SQLite affinity of a column
type columnType string

const (
	typeReal columnType = "REAL"
	typeText columnType = "TEXT"
)

type column struct {
	name string
	typ  columnType
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func createStatement(table string, cols []column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quote(c.name) + " " + string(c.typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))
}

func insertStatement(table string, cols []column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.name)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(names, ", "), marks)
}
