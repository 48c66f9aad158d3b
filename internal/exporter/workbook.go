package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a workbook
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// defaultSheet is created by excelize.NewFile
const defaultSheet = "Sheet1"

// WriteWorkbook writes sheets into an XLSX file and returns the full path.
// Relative paths resolve against the output directory.
func (w *CSVWriter) WriteWorkbook(filePath string, sheets []Sheet) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", filePath)
	}
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(sheets)))

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.Name)
		if err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, sheet); err != nil {
			return "", err
		}
	}
	if !hasSheet(sheets, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return "", fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	err := writeAtomic(fullPath, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filePath, err)
	}
	return fullPath, nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	row := 1
	if len(sheet.Headers) > 0 {
		header := make([]interface{}, len(sheet.Headers))
		for i, h := range sheet.Headers {
			header[i] = h
		}
		if err := setRow(f, sheet.Name, row, header); err != nil {
			return err
		}
		row++
	}
	for _, values := range sheet.Rows {
		if err := setRow(f, sheet.Name, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func hasSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}
