package loader

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "nysecli/internal/errors"
	"nysecli/internal/testutil"
	"nysecli/pkg/contracts/domain"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	return testutil.WriteDataset(t, t.TempDir())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2012-12-31", time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"2016-01-05 00:00:00", time.Date(2016, 1, 5, 0, 0, 0, 0, time.UTC)},
		{" 2015-09-26 ", time.Date(2015, 9, 26, 0, 0, 0, 0, time.UTC)},
		{"12/31/2014", time.Date(2014, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"not-a-date", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseDate(tt.in)), "got %v", ParseDate(tt.in))
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  string
	}{
		{"156508", true, "156508"},
		{"-0.8", true, "-0.8"},
		{"1.5E+3", true, "1500"},
		{"", false, ""},
		{"   ", false, ""},
		{"n/a", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDecimal(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Decimal))
			}
		})
	}
}

func TestLoadFundamentals(t *testing.T) {
	dir := fixtureDir(t)
	l := NewLoader(nil)

	table, err := l.LoadFundamentals(context.Background(), filepath.Join(dir, "fundamentals.csv"), domain.ColTotalRevenue)
	require.NoError(t, err)
	require.Len(t, table.Records, 8)
	assert.Equal(t, "", table.Header[0], "unnamed index column is kept")
	assert.Len(t, table.Header, 24)

	aapl := table.Records[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, time.Date(2012, 9, 29, 0, 0, 0, 0, time.UTC), aapl.PeriodEnding)
	assert.True(t, aapl.TotalRevenue.Decimal.Equal(decimal.NewFromInt(156508)))
	assert.True(t, aapl.InterestExpense.Valid)
	assert.True(t, aapl.InterestExpense.Decimal.IsZero())
	assert.Len(t, aapl.Raw, 24)

	badco := table.Records[4]
	assert.False(t, badco.ResearchAndDevelopment.Valid, "empty cell is null")
	assert.False(t, badco.CashAndEquivalents.Valid, "absent column is null")

	zzz := table.Records[7]
	assert.False(t, zzz.HasPeriod(), "unparseable date is unknown")
}

func TestLoadFundamentals_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, filepath.Join(dir, "fundamentals.csv"),
		"Ticker Symbol,Period Ending,Net Income\nAAPL,2015-09-26,100\n")

	_, err := NewLoader(nil).LoadFundamentals(context.Background(), path, domain.ColTotalRevenue, domain.ColNetIncome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.True(t, apperrors.IsFatal(err))
	assert.Contains(t, err.Error(), "Total Revenue")
	assert.NotContains(t, err.Error(), "Net Income,")
}

func TestLoadFundamentals_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).LoadFundamentals(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingFile))
}

func TestLoadFundamentals_BOMHeader(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, filepath.Join(dir, "fundamentals.csv"),
		"\ufeffTicker Symbol,Period Ending,Total Revenue\nmsft,2015-06-30,93580\n")

	table, err := NewLoader(nil).LoadFundamentals(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "MSFT", table.Records[0].Ticker)
}

func TestLoadSecurities(t *testing.T) {
	dir := fixtureDir(t)

	secs, err := NewLoader(nil).LoadSecurities(context.Background(), filepath.Join(dir, "securities.csv"), domain.ColGICSSector)
	require.NoError(t, err)
	require.Len(t, secs, 3)

	assert.Equal(t, "AAPL", secs[0].Ticker)
	assert.Equal(t, "Information Technology", secs[0].Sector)
	assert.Equal(t, "Cupertino, California", secs[0].Headquarters)
	assert.Equal(t, "BADCO", secs[1].Ticker, "ticker is upper-cased")
}

func TestLoadSecurities_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, filepath.Join(dir, "securities.csv"), "Ticker symbol,Security\nAAPL,Apple\n")

	_, err := NewLoader(nil).LoadSecurities(context.Background(), path, domain.ColGICSSector)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoadPrices(t *testing.T) {
	dir := fixtureDir(t)

	prices, err := NewLoader(nil).LoadPrices(context.Background(), filepath.Join(dir, "prices-split-adjusted.csv"))
	require.NoError(t, err)
	require.Len(t, prices, 4)

	assert.Equal(t, "AAPL", prices[0].Symbol)
	assert.Equal(t, sql.NullFloat64{Float64: 114.71, Valid: true}, prices[0].Close)
	assert.Equal(t, time.Date(2015, 9, 26, 0, 0, 0, 0, time.UTC), prices[0].Date)
	assert.Equal(t, "ZZZ", prices[3].Symbol)
}

func TestLoadPrices_NullCells(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, filepath.Join(dir, "prices.csv"),
		"date,symbol,open,close,low,high,volume\n"+
			"2016-12-30,AAPL,1,,1,1,100\n"+
			"2016-12-30,MSFT,1,x,1,1,100\n")

	prices, err := NewLoader(nil).LoadPrices(context.Background(), path)
	require.NoError(t, err, "bad price cells never fail the file")
	require.Len(t, prices, 2)

	for _, p := range prices {
		assert.False(t, p.Close.Valid, p.Symbol)
		assert.Equal(t, sql.NullFloat64{Float64: 1, Valid: true}, p.Open, p.Symbol)
		assert.Equal(t, 100.0, p.Volume.Float64, p.Symbol)
	}
}

func TestLoadAll(t *testing.T) {
	dir := fixtureDir(t)
	l := NewLoader(nil)

	ds, err := l.LoadAll(context.Background(), Sources{
		Fundamentals: filepath.Join(dir, "fundamentals.csv"),
		Securities:   filepath.Join(dir, "securities.csv"),
		Prices:       filepath.Join(dir, "prices.csv"),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, ds.Fundamentals.Len())
	assert.Len(t, ds.Securities, 3)
	assert.Len(t, ds.Prices, 4)

	t.Run("skips empty sources", func(t *testing.T) {
		ds, err := l.LoadAll(context.Background(), Sources{Securities: filepath.Join(dir, "securities.csv")})
		require.NoError(t, err)
		assert.Nil(t, ds.Fundamentals)
		assert.Nil(t, ds.Prices)
	})

	t.Run("propagates first error", func(t *testing.T) {
		_, err := l.LoadAll(context.Background(), Sources{
			Fundamentals: filepath.Join(dir, "fundamentals.csv"),
			Securities:   filepath.Join(dir, "missing.csv"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingFile))
	})
}

func TestClean(t *testing.T) {
	dir := fixtureDir(t)
	ds, err := NewLoader(nil).LoadAll(context.Background(), Sources{
		Fundamentals: filepath.Join(dir, "fundamentals.csv"),
		Securities:   filepath.Join(dir, "securities.csv"),
		Prices:       filepath.Join(dir, "prices.csv"),
	})
	require.NoError(t, err)

	report := Clean(ds)
	assert.Equal(t, 0, report.DroppedRecords, "every fixture row has revenue and net income")
	assert.Equal(t, 1, report.DroppedPrices, "ZZZ is not a listed security")
	assert.Len(t, ds.Prices, 3)
}

func TestDropIncomplete(t *testing.T) {
	records := []domain.FinancialRecord{
		{Ticker: "A", NetIncome: decimal.NewNullDecimal(decimal.NewFromInt(1)), TotalRevenue: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{Ticker: "B", NetIncome: decimal.NewNullDecimal(decimal.NewFromInt(1))},
		{Ticker: "C"},
	}

	kept := DropIncomplete(records, domain.ColNetIncome, domain.ColTotalRevenue, "Unknown Column")
	require.Len(t, kept, 1)
	assert.Equal(t, "A", kept[0].Ticker)
}
