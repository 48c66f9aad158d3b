package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/gocarina/gocsv"

	apperrors "nysecli/internal/errors"
	"nysecli/pkg/contracts/domain"
)

// Table names used in diagnostics
const (
	SecuritiesTable = "securities"
	PricesTable     = "prices"
)

var (
	securityColumns = []string{domain.ColSecurityTicker}
	priceColumns    = []string{domain.ColPriceDate, domain.ColPriceSymbol, domain.ColPriceClose}
)

// priceRow mirrors the prices CSV for gocsv. Every cell stays a string so
// that an unparseable date degrades to the zero time and an empty or
// non-numeric price becomes null instead of failing the file.
type priceRow struct {
	Date   string `csv:"date"`
	Symbol string `csv:"symbol"`
	Open   string `csv:"open"`
	Close  string `csv:"close"`
	Low    string `csv:"low"`
	High   string `csv:"high"`
	Volume string `csv:"volume"`
}

// LoadSecurities reads the securities reference table. required adds
// columns beyond the ticker, such as GICS Sector for sector reports.
func (l *Loader) LoadSecurities(ctx context.Context, path string, required ...string) ([]domain.SecurityMeta, error) {
	data, err := readInput(path, SecuritiesTable, append(append([]string{}, securityColumns...), required...))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	var securities []domain.SecurityMeta
	if err := gocsv.UnmarshalBytes(data, &securities); err != nil {
		return nil, apperrors.NewParsingError("decode securities", err)
	}

	for i := range securities {
		securities[i].Ticker = NormalizeTicker(securities[i].Ticker)
	}

	l.logger.InfoContext(ctx, "Loaded securities",
		slog.String("path", path),
		slog.Int("records", len(securities)))

	return securities, nil
}

// LoadPrices reads a prices table (raw or split adjusted)
func (l *Loader) LoadPrices(ctx context.Context, path string) ([]domain.PriceRecord, error) {
	data, err := readInput(path, PricesTable, priceColumns)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	var rows []priceRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, apperrors.NewParsingError("decode prices", err)
	}

	prices := make([]domain.PriceRecord, len(rows))
	for i, r := range rows {
		prices[i] = domain.PriceRecord{
			Symbol: NormalizeTicker(r.Symbol),
			Date:   ParseDate(r.Date),
			Open:   ParseFloat(r.Open),
			Close:  ParseFloat(r.Close),
			Low:    ParseFloat(r.Low),
			High:   ParseFloat(r.High),
			Volume: ParseFloat(r.Volume),
		}
	}

	l.logger.InfoContext(ctx, "Loaded prices",
		slog.String("path", path),
		slog.Int("records", len(prices)))

	return prices, nil
}

// readInput reads a whole file and validates its header before decoding
func readInput(path, table string, required []string) ([]byte, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil && err != io.EOF {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read %s header", table), err)
	}
	if err := checkRequired(table, indexHeader(header), required); err != nil {
		return nil, err
	}

	return data, nil
}
