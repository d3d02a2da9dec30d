package dataprocessing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvHeader = "Date,Open,High,Low,Close,Volume,Trades,VWAP\n"

func TestParseCSV(t *testing.T) {
	input := csvHeader +
		"2024-01-02,10.0,11.0,9.5,10.5,1000,25,10.2\n" +
		"2024-01-03,10.5,12.0,10.0,11.5,1500,30,11.1\n"

	records, err := ParseCSV(nil, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 10.0, records[0].Open)
	assert.Equal(t, 11.0, records[0].High)
	assert.Equal(t, 9.5, records[0].Low)
	assert.Equal(t, 10.5, records[0].Close)
	assert.Equal(t, int64(1000), records[0].Volume)
	assert.Equal(t, int64(25), records[0].Trades)
	assert.Equal(t, 10.2, records[0].VWAP)
}

func TestParseCSVDropsRowsWithoutTrades(t *testing.T) {
	input := csvHeader +
		"2024-01-02,10,11,9,10,1000,25,10\n" +
		"2024-01-03,10,11,9,10,1000,,10\n" +
		"2024-01-04,10,11,9,10,1000,nan,10\n" +
		"2024-01-05,10,11,9,10,1000,40,10\n"

	records, err := ParseCSV(nil, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(25), records[0].Trades)
	assert.Equal(t, int64(40), records[1].Trades)
}

func TestParseCSVMissingColumn(t *testing.T) {
	input := "Date,Open,High,Low,Close,Volume,VWAP\n" +
		"2024-01-02,10,11,9,10,1000,10\n"

	_, err := ParseCSV(nil, strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Trades")
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errIs   error
		errText string
	}{
		{
			name:  "empty file",
			input: "",
			errIs: ErrNoDataRows,
		},
		{
			name:  "header only",
			input: csvHeader,
			errIs: ErrNoDataRows,
		},
		{
			name:  "only rows without trades",
			input: csvHeader + "2024-01-02,10,11,9,10,1000,,10\n",
			errIs: ErrNoDataRows,
		},
		{
			name:    "bad date",
			input:   csvHeader + "not-a-date,10,11,9,10,1000,25,10\n",
			errText: "unparseable date",
		},
		{
			name:    "bad close",
			input:   csvHeader + "2024-01-02,10,11,9,abc,1000,25,10\n",
			errText: "column Close",
		},
		{
			name:    "bad volume",
			input:   csvHeader + "2024-01-02,10,11,9,10,12.5,25,10\n",
			errText: "column Volume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(nil, strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	input := "date,OPEN,high,LOW,close,volume,TRADES,vwap\n" +
		"2024-01-02,10,11,9,10,1000,25,10\n"

	records, err := ParseCSV(nil, strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseCSVIntegerAsFloat(t *testing.T) {
	// Some spreadsheet exports write integer columns as "1000.0".
	input := csvHeader + "2024-01-02,10,11,9,10,1000.0,25.0,10\n"

	records, err := ParseCSV(nil, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), records[0].Volume)
	assert.Equal(t, int64(25), records[0].Trades)
}

func TestParseDispatchesByExtension(t *testing.T) {
	input := csvHeader + "2024-01-02,10,11,9,10,1000,25,10\n"

	records, err := Parse(nil, "prices.CSV", strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = Parse(nil, "prices.txt", strings.NewReader(input))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Open", "High", "Low", "Close", "Volume", "Trades", "VWAP"},
		{"2024-01-02", 10.0, 11.0, 9.5, 10.5, 1000, 25, 10.2},
		{"2024-01-03", 10.5, 12.0, 10.0, 11.5, 1500, 30, 11.1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	records, err := Parse(nil, "prices.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 10.5, records[1].Open)
	assert.Equal(t, int64(1500), records[1].Volume)
}
