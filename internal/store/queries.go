package store

import (
	"context"
	"database/sql"

	apperrors "nysecli/internal/errors"
)

// HistoryRow is one period of a ticker joined with its close on the
// period end date
type HistoryRow struct {
	Ticker       string
	PeriodEnding string
	TotalRevenue sql.NullFloat64
	NetIncome    sql.NullFloat64
	StockPrice   sql.NullFloat64
}

// SectorRevenue is the average total revenue of one sector
type SectorRevenue struct {
	Sector     string
	AvgRevenue sql.NullFloat64
}

const tickerHistoryQuery = `
SELECT f."Ticker Symbol", f."Period Ending", f."Total Revenue", f."Net Income", p.close AS stock_price
FROM fundamentals f
JOIN prices p ON f."Ticker Symbol" = p.symbol AND f."Period Ending" = p.date
WHERE f."Ticker Symbol" = ?
ORDER BY f."Period Ending"`

const sectorRevenueQuery = `
SELECT s."GICS Sector", AVG(f."Total Revenue") AS avg_revenue
FROM fundamentals f
JOIN securities s ON f."Ticker Symbol" = s."Ticker symbol"
GROUP BY s."GICS Sector"
ORDER BY avg_revenue DESC`

// TickerHistory returns the periods of ticker that have a close on the
// period end date
func (s *Store) TickerHistory(ctx context.Context, ticker string) ([]HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx, tickerHistoryQuery, ticker)
	if err != nil {
		return nil, apperrors.NewStorageError("query ticker history", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var r HistoryRow
		if err := rows.Scan(&r.Ticker, &r.PeriodEnding, &r.TotalRevenue, &r.NetIncome, &r.StockPrice); err != nil {
			return nil, apperrors.NewStorageError("scan ticker history", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SectorAverageRevenue returns the average revenue per sector, highest first
func (s *Store) SectorAverageRevenue(ctx context.Context) ([]SectorRevenue, error) {
	rows, err := s.db.QueryContext(ctx, sectorRevenueQuery)
	if err != nil {
		return nil, apperrors.NewStorageError("query sector revenue", err)
	}
	defer rows.Close()

	var out []SectorRevenue
	for rows.Next() {
		var r SectorRevenue
		var sector sql.NullString
		if err := rows.Scan(&sector, &r.AvgRevenue); err != nil {
			return nil, apperrors.NewStorageError("scan sector revenue", err)
		}
		r.Sector = sector.String
		out = append(out, r)
	}
	return out, rows.Err()
}
