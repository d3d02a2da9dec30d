package dashboard

import (
	"encoding/json"

	"stockpulse/internal/dataprocessing"
	"stockpulse/pkg/contracts/domain"
)

// headRows is the number of leading rows shown in the data preview.
const headRows = 5

// describedColumns are the columns covered by the descriptive statistics
// table, in display order.
var describedColumns = []string{
	domain.ColumnOpen,
	domain.ColumnHigh,
	domain.ColumnLow,
	domain.ColumnClose,
	domain.ColumnVolume,
}

// EDASummary is the data-overview section: table shape, per-column missing
// counts and types, a head preview, and describe()-style statistics.
type EDASummary struct {
	Shape         Shape                    `json:"shape"`
	MissingValues map[string]int           `json:"missing_values"`
	DataTypes     map[string]string        `json:"data_types"`
	Head          []map[string]any         `json:"head"`
	Describe      map[string]DescribeStats `json:"describe"`
}

// Shape is the row/column count of the enriched table.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// DescribeStats mirrors the classic describe() output for one column.
type DescribeStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"25%"`
	Q50   float64 `json:"50%"`
	Q75   float64 `json:"75%"`
	Max   float64 `json:"max"`
}

// MarshalJSON renders undefined statistics as null. A single-row upload has
// no sample standard deviation, and NaN is not valid JSON.
func (d DescribeStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"count": d.Count,
		"mean":  nullable(d.Mean),
		"std":   nullable(d.Std),
		"min":   nullable(d.Min),
		"25%":   nullable(d.Q25),
		"50%":   nullable(d.Q50),
		"75%":   nullable(d.Q75),
		"max":   nullable(d.Max),
	})
}

// BuildEDASummary computes the EDA section from the enriched table.
func BuildEDASummary(table *domain.PriceTable) *EDASummary {
	columns := domain.AllColumns()

	summary := &EDASummary{
		Shape:         Shape{Rows: table.Len(), Columns: len(columns)},
		MissingValues: make(map[string]int, len(columns)),
		DataTypes:     make(map[string]string, len(columns)),
		Describe:      make(map[string]DescribeStats, len(describedColumns)),
	}

	for _, col := range columns {
		summary.MissingValues[col] = missingCount(table, col)
		summary.DataTypes[col] = columnType(col)
	}

	n := table.Len()
	if n > headRows {
		n = headRows
	}
	summary.Head = make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		summary.Head = append(summary.Head, headRow(table, i))
	}

	for _, col := range describedColumns {
		values := table.Column(col)
		summary.Describe[col] = DescribeStats{
			Count: dataprocessing.Count(values),
			Mean:  dataprocessing.Mean(values),
			Std:   dataprocessing.Std(values),
			Min:   dataprocessing.Min(values),
			Q25:   dataprocessing.Quantile(values, 0.25),
			Q50:   dataprocessing.Quantile(values, 0.50),
			Q75:   dataprocessing.Quantile(values, 0.75),
			Max:   dataprocessing.Max(values),
		}
	}

	return summary
}

func missingCount(table *domain.PriceTable, col string) int {
	switch col {
	case domain.ColumnDate, domain.ColumnMonth:
		return 0
	}
	values := table.Column(col)
	return len(values) - dataprocessing.Count(values)
}

func columnType(col string) string {
	switch col {
	case domain.ColumnDate:
		return "datetime"
	case domain.ColumnVolume, domain.ColumnTrades:
		return "int64"
	case domain.ColumnMonth:
		return "int"
	default:
		return "float64"
	}
}

func headRow(table *domain.PriceTable, i int) map[string]any {
	r := table.Records[i]
	return map[string]any{
		domain.ColumnDate:                r.Date.Format("2006-01-02"),
		domain.ColumnOpen:                r.Open,
		domain.ColumnHigh:                r.High,
		domain.ColumnLow:                 r.Low,
		domain.ColumnClose:               r.Close,
		domain.ColumnVolume:              r.Volume,
		domain.ColumnTrades:              r.Trades,
		domain.ColumnVWAP:                r.VWAP,
		domain.ColumnDailyReturn:         nullable(table.DailyReturn[i]),
		domain.ColumnMA5:                 nullable(table.MA5[i]),
		domain.ColumnMA20:                nullable(table.MA20[i]),
		domain.ColumnMA50:                nullable(table.MA50[i]),
		domain.ColumnVolumeChange:        nullable(table.VolumeChange[i]),
		domain.ColumnHighLowDifference:   nullable(table.HighLowDifference[i]),
		domain.ColumnRollingVolatility20: nullable(table.RollingVolatility20[i]),
		domain.ColumnRollingMean20:       nullable(table.RollingMean20[i]),
		domain.ColumnMonth:               table.Month[i],
	}
}
