package report

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nysecli/internal/config"
	"nysecli/internal/forecast"
	"nysecli/internal/loader"
	"nysecli/internal/merger"
	"nysecli/internal/ratios"
	"nysecli/internal/risk"
	"nysecli/internal/sector"
	"nysecli/internal/testutil"
	"nysecli/pkg/contracts/domain"
)

func fixturePeriods(t *testing.T) ([]string, []domain.CompanyPeriod) {
	t.Helper()
	dir := testutil.WriteDataset(t, t.TempDir())
	ds, err := loader.NewLoader(nil).LoadAll(context.Background(), loader.Sources{
		Fundamentals: filepath.Join(dir, "fundamentals.csv"),
		Securities:   filepath.Join(dir, "securities.csv"),
		Prices:       filepath.Join(dir, "prices.csv"),
	})
	require.NoError(t, err)

	periods := merger.WithSecurities(ds.Fundamentals.Records, ds.Securities)
	merger.WithPrices(periods, ds.Prices)
	ratios.Apply(periods)
	ratios.ComputeGrowth(periods)
	return ds.Fundamentals.Header, periods
}

func column(t *testing.T, tbl Table, name string) int {
	t.Helper()
	for i, h := range tbl.Headers {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}

func TestRatiosTable(t *testing.T) {
	header, periods := fixturePeriods(t)
	tbl := RatiosTable(header, periods)

	require.Len(t, tbl.Headers, len(header)+len(domain.RatioNames))
	assert.Equal(t, header, tbl.Headers[:len(header)])
	assert.Equal(t, domain.RatioNames, tbl.Headers[len(header):])
	require.Len(t, tbl.Rows, 8)

	badco := tbl.Rows[4]
	assert.Equal(t, "BADCO", badco[1])
	assert.Equal(t, "3", badco[column(t, tbl, domain.RatioDebtToEquity)])
	assert.Equal(t, "-0.08", badco[column(t, tbl, domain.RatioNetMargin)])

	cashco := tbl.Rows[6]
	assert.Equal(t, "", cashco[column(t, tbl, domain.RatioNetMargin)], "zero revenue leaves the margin empty")
}

func TestMergedAndPricesTables(t *testing.T) {
	header, periods := fixturePeriods(t)

	merged := MergedTable(header, periods)
	assert.Len(t, merged.Headers, len(header)+len(SecurityHeaders))
	zzz := merged.Rows[7]
	assert.Equal(t, "", zzz[column(t, merged, domain.ColGICSSector)], "unlisted ticker keeps empty security columns")
	assert.Equal(t, "Information Technology", merged.Rows[0][column(t, merged, domain.ColGICSSector)])

	priced := PricesTable(header, periods)
	closeCol := column(t, priced, domain.ColPriceClose)
	assert.Equal(t, "114.71", priced.Rows[3][closeCol], "AAPL 2015 period end has a close")
	assert.Equal(t, "", priced.Rows[0][closeCol])
}

func TestSubsetTable(t *testing.T) {
	header, periods := fixturePeriods(t)
	cfg := config.Default()
	flagger := risk.NewFlagger(cfg.Risk, cfg.Flags)

	rule, ok := flagger.Rule(risk.SubsetDebtRisks)
	require.True(t, ok)
	tbl := SubsetTable(header, periods, rule)
	assert.Equal(t, []string{domain.ColTickerSymbol, domain.ColSecurityName, domain.RatioDebtToEquity, domain.RatioInterestCoverage}, tbl.Headers)
	for _, row := range tbl.Rows {
		assert.Equal(t, "BADCO", row[0])
	}
}

func TestSectorTables(t *testing.T) {
	_, periods := fixturePeriods(t)
	summaries := sector.NewAnalyzer(nil).Analyze(context.Background(), periods, sector.DetailedRatios)

	avg := SectorTable(summaries)
	assert.Equal(t, "Average "+domain.RatioNetMargin, avg.Headers[1])
	require.NotEmpty(t, avg.Rows)

	detail := SectorDetailTable(summaries)
	assert.Equal(t, "Company Count", detail.Headers[len(detail.Headers)-1])
	assert.Len(t, detail.Headers, 1+3*len(sector.DetailedRatios)+1)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, "0.267", round3(sqlFloat(0.26664)))
	assert.Equal(t, "-1.5", round3(sqlFloat(-1.5)))
	assert.Equal(t, "", round3(sqlNull()))
}

func TestForecastTables(t *testing.T) {
	fc := &forecast.RevenueForecast{
		Ticker: "AAPL",
		Dates:  []time.Time{time.Date(2016, 9, 26, 0, 0, 0, 0, time.UTC)},
		Linear: []float64{250000},
	}
	tbl := RevenueForecastTable(fc)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"AAPL", "2016-09-26", "250000", ""}, tbl.Rows[0])

	sa := forecast.ScenarioAnalysis{Scenarios: []forecast.Scenario{{Revenue: 1000, OriginalProfit: 100, NewProfit: 40, Impact: -60}}}
	assert.Equal(t, []string{"1000", "100", "40", "-60"}, ScenarioTable(sa).Rows[0])
}

func TestReporter(t *testing.T) {
	header, periods := fixturePeriods(t)
	out := filepath.Join(t.TempDir(), "output")
	paths := &config.Paths{OutputDir: out}

	cfg := config.Default().Report
	rep := NewReporter(paths, cfg, nil)
	var recorded []string
	rep.SetRecorder(func(_ context.Context, kind string) { recorded = append(recorded, kind) })
	rep.Begin("ratios", "run-1", "test")
	rep.Count("records", len(periods))

	ctx := context.Background()
	require.NoError(t, rep.WriteTable(ctx, config.RatiosCSVFileName, RatiosTable(header, periods)))

	summaries := sector.NewAnalyzer(nil).Analyze(ctx, periods, sector.DetailedRatios)
	require.NoError(t, rep.WriteSectorWorkbook(ctx, config.SectorWorkbookFileName, summaries))

	summary, err := rep.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"csv", "xlsx"}, recorded)
	require.Len(t, summary.Outputs, 2)
	assert.Equal(t, 8, summary.Outputs[0].Rows)

	t.Run("csv is readable", func(t *testing.T) {
		f, err := os.Open(filepath.Join(out, config.RatiosCSVFileName))
		require.NoError(t, err)
		defer f.Close()
		r := csv.NewReader(f)
		rows, err := r.ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 9)
	})

	t.Run("workbook has both sheets", func(t *testing.T) {
		wb, err := excelize.OpenFile(filepath.Join(out, config.SectorWorkbookFileName))
		require.NoError(t, err)
		defer wb.Close()
		assert.Equal(t, []string{"Sector Averages", "Sector Detail"}, wb.GetSheetList())
	})

	t.Run("run summary", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(out, config.RunSummaryFileName))
		require.NoError(t, err)
		var got RunSummary
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "ratios", got.Command)
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, 8, got.Counts["records"])
		assert.Len(t, got.Outputs, 2)
	})
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 1.5, cellValue("1.5"))
	assert.Equal(t, "Energy", cellValue("Energy"))
	assert.Equal(t, "", cellValue(""))
}

func sqlFloat(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func sqlNull() sql.NullFloat64 { return sql.NullFloat64{} }
