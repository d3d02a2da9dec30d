package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"stockpulse/pkg/contracts/domain"
)

// Parse errors surfaced to the upload handler. All of them are terminal for
// the load: no partial table is ever produced.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumn     = errors.New("required column missing")
	ErrNoDataRows        = errors.New("file contains no data rows")
)

// requiredColumns are the columns every uploaded price file must carry.
// Additional columns are ignored.
var requiredColumns = []string{
	domain.ColumnDate,
	domain.ColumnOpen,
	domain.ColumnHigh,
	domain.ColumnLow,
	domain.ColumnClose,
	domain.ColumnVolume,
	domain.ColumnTrades,
	domain.ColumnVWAP,
}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Parse reads an uploaded price file and extracts its OHLCV records.
// The format is chosen from the filename extension: .csv or .xlsx.
// Rows with an empty Trades cell are dropped; a missing required column or
// an unparseable Date fails the whole load.
func Parse(logger *slog.Logger, filename string, r io.Reader) ([]domain.PriceRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(logger, r)
	case ".xlsx":
		return ParseXLSX(logger, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseCSV reads OHLCV records from a CSV stream. The first row is the
// header; column positions are mapped by name, case-insensitively.
func ParseCSV(logger *slog.Logger, r io.Reader) ([]domain.PriceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return recordsFromRows(logger, rows)
}

// ParseXLSX reads OHLCV records from the first sheet of an Excel workbook.
// The header row and column mapping work exactly as for CSV input.
func ParseXLSX(logger *slog.Logger, r io.Reader) ([]domain.PriceRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoDataRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return recordsFromRows(logger, rows)
}

// recordsFromRows maps a header row plus data rows to price records.
func recordsFromRows(logger *slog.Logger, rows [][]string) ([]domain.PriceRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	columnMap := make(map[string]int)
	for j, header := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(header))] = j
	}
	for _, col := range requiredColumns {
		if _, ok := columnMap[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	cell := func(row []string, col string) string {
		idx := columnMap[strings.ToLower(col)]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]domain.PriceRecord, 0, len(rows)-1)
	dropped := 0

	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		// Rows without a Trades value are discarded, not errored.
		tradesCell := cell(row, domain.ColumnTrades)
		if tradesCell == "" || strings.EqualFold(tradesCell, "nan") {
			dropped++
			continue
		}

		date, err := parseDate(cell(row, domain.ColumnDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		record := domain.PriceRecord{Date: date}
		if record.Open, err = parseFloatCell(cell(row, domain.ColumnOpen), domain.ColumnOpen); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.High, err = parseFloatCell(cell(row, domain.ColumnHigh), domain.ColumnHigh); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.Low, err = parseFloatCell(cell(row, domain.ColumnLow), domain.ColumnLow); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.Close, err = parseFloatCell(cell(row, domain.ColumnClose), domain.ColumnClose); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.Volume, err = parseIntCell(cell(row, domain.ColumnVolume), domain.ColumnVolume); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.Trades, err = parseIntCell(tradesCell, domain.ColumnTrades); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record.VWAP, err = parseFloatCell(cell(row, domain.ColumnVWAP), domain.ColumnVWAP); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrNoDataRows
	}

	logger.Debug("parsed price file",
		slog.Int("rows", len(records)),
		slog.Int("dropped_missing_trades", dropped))

	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseFloatCell(s, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid value %q", col, s)
	}
	return v, nil
}

func parseIntCell(s, col string) (int64, error) {
	clean := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		// Some exports write integer columns as floats (e.g. "12345.0").
		f, ferr := strconv.ParseFloat(clean, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("column %s: invalid value %q", col, s)
		}
		return int64(f), nil
	}
	return v, nil
}
