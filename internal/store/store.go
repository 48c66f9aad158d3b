package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	apperrors "nysecli/internal/errors"
	"nysecli/pkg/contracts/domain"
)

// Store wraps the SQLite database
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the database at path
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("create database directory", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, apperrors.NewStorageError("open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("open database", err)
	}
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string { return s.path }

// WriteFundamentals replaces the fundamentals table with the merged rows.
// header is the fundamentals header; the securities columns except the
// duplicate ticker follow it.
func (s *Store) WriteFundamentals(ctx context.Context, header []string, periods []domain.CompanyPeriod) (int, error) {
	cols := make([]column, 0, len(header)+len(securityColumns)-1)
	for i, h := range header {
		switch {
		case i == 0 && h == "":
			cols = append(cols, column{IndexColumn, typeReal})
		case h == domain.ColTickerSymbol || h == domain.ColPeriodEnding:
			cols = append(cols, column{h, typeText})
		default:
			cols = append(cols, column{h, typeReal})
		}
	}
	for _, c := range securityColumns[1:] {
		cols = append(cols, column{c, typeText})
	}

	periodIdx := -1
	for i, h := range header {
		if h == domain.ColPeriodEnding {
			periodIdx = i
		}
	}

	rows := make([][]interface{}, len(periods))
	for i := range periods {
		p := &periods[i]
		row := make([]interface{}, 0, len(cols))
		for j := range header {
			cell := ""
			if j < len(p.Record.Raw) {
				cell = p.Record.Raw[j]
			}
			switch {
			case j == periodIdx && p.Record.HasPeriod():
				row = append(row, p.Record.PeriodEnding.Format(dateLayout))
			case cols[j].typ == typeText:
				row = append(row, text(cell))
			default:
				row = append(row, number(cell))
			}
		}
		row = append(row, securityValues(p.Security)[1:]...)
		rows[i] = row
	}

	return len(rows), s.replaceTable(ctx, FundamentalsTable, cols, rows)
}

// WriteSecurities replaces the securities table
func (s *Store) WriteSecurities(ctx context.Context, securities []domain.SecurityMeta) (int, error) {
	cols := make([]column, len(securityColumns))
	for i, c := range securityColumns {
		cols[i] = column{c, typeText}
	}
	rows := make([][]interface{}, len(securities))
	for i := range securities {
		rows[i] = securityValues(&securities[i])
	}
	return len(rows), s.replaceTable(ctx, SecuritiesTable, cols, rows)
}

// WritePrices replaces the prices table
func (s *Store) WritePrices(ctx context.Context, prices []domain.PriceRecord) (int, error) {
	cols := []column{
		{domain.ColPriceDate, typeText},
		{domain.ColPriceSymbol, typeText},
		{"open", typeReal},
		{domain.ColPriceClose, typeReal},
		{"low", typeReal},
		{"high", typeReal},
		{"volume", typeReal},
	}
	rows := make([][]interface{}, len(prices))
	for i, p := range prices {
		var date interface{}
		if !p.Date.IsZero() {
			date = p.Date.Format(dateLayout)
		}
		// invalid sql.NullFloat64 values are written as NULL
		rows[i] = []interface{}{date, p.Symbol, p.Open, p.Close, p.Low, p.High, p.Volume}
	}
	return len(rows), s.replaceTable(ctx, PricesTable, cols, rows)
}

// replaceTable drops and recreates table and inserts rows in one transaction
func (s *Store) replaceTable(ctx context.Context, table string, cols []column, rows [][]interface{}) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("begin transaction for "+table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
		return apperrors.NewStorageError("drop "+table, err)
	}
	if _, err := tx.ExecContext(ctx, createStatement(table, cols)); err != nil {
		return apperrors.NewStorageError("create "+table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(table, cols))
	if err != nil {
		return apperrors.NewStorageError("prepare insert into "+table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("insert row %d into %s", i, table), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("commit "+table, err)
	}

	s.logger.InfoContext(ctx, "Table written",
		slog.String("table", table),
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(cols)))
	return nil
}

const dateLayout = "2006-01-02"

var securityColumns = []string{
	domain.ColSecurityTicker, domain.ColSecurityName, "SEC filings", domain.ColGICSSector,
	domain.ColGICSSubIndustry, "Address of Headquarters", "Date first added", "CIK",
}

// securityValues returns the securities columns, NULL for a join miss
func securityValues(sec *domain.SecurityMeta) []interface{} {
	if sec == nil {
		return make([]interface{}, len(securityColumns))
	}
	return []interface{}{
		sec.Ticker, text(sec.Name), text(sec.SECFilings), text(sec.Sector),
		text(sec.SubIndustry), text(sec.Headquarters), text(sec.DateFirstAdded), text(sec.CIK),
	}
}

// text stores empty cells as NULL
func text(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// number stores unparseable or empty cells as NULL
func number(s string) interface{} {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return f
}
