// Package testutil provides a small synthetic NYSE dataset for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FundamentalsHeader matches the layout of the NYSE fundamentals file,
// including the unnamed index column
const FundamentalsHeader = ",Ticker Symbol,Period Ending,Accounts Payable,Cost of Revenue," +
	"Earnings Before Interest and Tax,Gross Profit,Interest Expense,Inventory,Long-Term Debt," +
	"Net Cash Flow-Operating,Net Income,Operating Income,Research and Development,Retained Earnings," +
	"Total Assets,Total Current Assets,Total Current Liabilities,Total Equity,Total Liabilities," +
	"Total Revenue,For Year,Earnings Per Share,Estimated Shares Outstanding"

// FundamentalsCSV has four AAPL years, two distressed BADCO years, a
// zero-revenue CASHCO year with negative operating cash flow and an
// unlisted ZZZ row with an unparseable date.
const FundamentalsCSV = FundamentalsHeader + `
0,AAPL,2012-09-29,21175,87846,55763,68662,0,791,0,50856,41733,55241,3381,101289,176064,57653,38542,118210,57854,156508,2012,44.64,934.88
1,AAPL,2013-09-28,22367,106606,50155,64304,136,1764,16960,53666,37037,48999,4475,104256,207000,73286,43658,123549,83451,170910,2013,40.03,925.23
2,AAPL,2014-09-27,30196,112258,53483,70537,384,2111,28987,59713,39510,52503,6041,87152,231839,68531,63448,111547,120292,182795,2014,6.49,6087.83
3,AAPL,2015-09-26,35490,140089,72515,93626,733,2349,53463,81266,53394,71230,8067,92284,290479,89378,80610,119355,171124,233715,2015,9.22,5791.11
4,BADCO,2015-12-31,150,900,-40,100,30,200,900,-20,-80,-50,,-500,1200,300,400,300,900,1000,2015,-0.8,100
5,BADCO,2016-12-31,160,880,-50,70,35,300,1000,-30,-120,-60,,-620,1250,350,450,250,1000,950,2016,-1.2,100
6,CASHCO,2015-12-31,5,0,4,0,1,10,10,-5,10,4,,20,100,50,25,60,40,0,2015,0.1,100
7,ZZZ,not-a-date,10,300,80,200,5,40,50,70,50,60,,100,800,300,150,500,300,500,2015,0.5,100
`

// SecuritiesCSV lists AAPL, BADCO and CASHCO but not ZZZ
const SecuritiesCSV = `Ticker symbol,Security,SEC filings,GICS Sector,GICS Sub Industry,Address of Headquarters,Date first added,CIK
AAPL,Apple Inc.,reports,Information Technology,Computer Hardware,"Cupertino, California",1982-11-30,320193
badco,Bad Company,reports,Industrials,Industrial Conglomerates,"Springfield, Illinois",,1000001
CASHCO,Cash Company,reports,Industrials,Trading Companies,"Austin, Texas",2001-01-01,1000002
`

// PricesCSV has closes on AAPL's 2015 period end and a later latest close
const PricesCSV = `date,symbol,open,close,low,high,volume
2015-09-26,AAPL,113.0,114.71,112.5,115.0,50000000.0
2016-12-30,AAPL,116.6,115.82,115.4,117.0,30000000.0
2016-12-29,BADCO,5.1,5.0,4.9,5.2,10000.0
2016-12-30,zzz,10.0,10.0,10.0,10.0,100.0
`

// WriteDataset writes the fixture tables into dir using the default file
// names and returns dir
func WriteDataset(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"fundamentals.csv":          FundamentalsCSV,
		"securities.csv":            SecuritiesCSV,
		"prices.csv":                PricesCSV,
		"prices-split-adjusted.csv": PricesCSV,
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
	}
	return dir
}

// WriteFile writes content to path, failing the test on error
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
