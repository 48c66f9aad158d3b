package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	writer, _ := setupTestEnv(t)

	sheets := []Sheet{
		{
			Name:    "Sector Averages",
			Headers: []string{"GICS Sector", "Average Net Margin"},
			Rows: [][]interface{}{
				{"Industrials", -0.08},
				{"Information Technology", 0.24},
			},
		},
		{
			Name:    "Sector Detail",
			Headers: []string{"GICS Sector", "Company Count"},
			Rows:    [][]interface{}{{"Industrials", 2}},
		},
	}

	path, err := writer.WriteWorkbook("sector_analysis.xlsx", sheets)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sector Averages", "Sector Detail"}, f.GetSheetList())

	rows, err := f.GetRows("Sector Averages")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"GICS Sector", "Average Net Margin"}, rows[0])
	assert.Equal(t, "Industrials", rows[1][0])
	assert.Equal(t, "-0.08", rows[1][1])

	detail, err := f.GetRows("Sector Detail")
	require.NoError(t, err)
	assert.Equal(t, []string{"Industrials", "2"}, detail[1])
}

func TestWriteWorkbook_NoSheets(t *testing.T) {
	writer, _ := setupTestEnv(t)
	_, err := writer.WriteWorkbook("empty.xlsx", nil)
	assert.Error(t, err)
}
