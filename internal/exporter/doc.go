// Package exporter writes tabular report files.
//
// CSVWriter writes CSV files with an optional UTF-8 BOM for Excel
// compatibility. Workbook writes XLSX files with one sheet per table. Both
// write to a temporary file in the destination directory and rename it into
// place, so a failed run never leaves a truncated report behind.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	err := w.WriteCSV("sector_analysis.csv", exporter.WriteOptions{
//		Headers: []string{"GICS Sector", "Average Net Margin"},
//		Records: records,
//	})
package exporter
