package domain

import (
	"math"
	"time"
)

// PriceRecord represents one daily OHLCV row from an uploaded price file.
type PriceRecord struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open" validate:"gt=0"`
	High   float64   `json:"high" validate:"gt=0"`
	Low    float64   `json:"low" validate:"gt=0"`
	Close  float64   `json:"close" validate:"gt=0"`
	Volume int64     `json:"volume" validate:"gte=0"`
	Trades int64     `json:"trades"`
	VWAP   float64   `json:"vwap"`
}

// PriceTable is the enriched price table produced by the feature pipeline.
// Derived columns are aligned by row index with Records; values that are
// undefined (leading rolling windows, first-row percentage changes) are NaN.
// A PriceTable is never mutated after construction.
type PriceTable struct {
	Records []PriceRecord `json:"records"`

	DailyReturn         []float64 `json:"daily_return"`
	MA5                 []float64 `json:"ma5"`
	MA20                []float64 `json:"ma20"`
	MA50                []float64 `json:"ma50"`
	VolumeChange        []float64 `json:"volume_change"`
	HighLowDifference   []float64 `json:"high_low_difference"`
	RollingVolatility20 []float64 `json:"rolling_volatility_20"`
	RollingMean20       []float64 `json:"rolling_mean_20"`
	Month               []int     `json:"month"`
}

// Len returns the number of rows in the table.
func (t *PriceTable) Len() int {
	return len(t.Records)
}

// Column returns the named derived or raw column as a float64 slice.
// Raw integer columns are widened to float64. Unknown names return nil.
func (t *PriceTable) Column(name string) []float64 {
	switch name {
	case ColumnOpen:
		return t.rawColumn(func(r PriceRecord) float64 { return r.Open })
	case ColumnHigh:
		return t.rawColumn(func(r PriceRecord) float64 { return r.High })
	case ColumnLow:
		return t.rawColumn(func(r PriceRecord) float64 { return r.Low })
	case ColumnClose:
		return t.rawColumn(func(r PriceRecord) float64 { return r.Close })
	case ColumnVolume:
		return t.rawColumn(func(r PriceRecord) float64 { return float64(r.Volume) })
	case ColumnTrades:
		return t.rawColumn(func(r PriceRecord) float64 { return float64(r.Trades) })
	case ColumnVWAP:
		return t.rawColumn(func(r PriceRecord) float64 { return r.VWAP })
	case ColumnDailyReturn:
		return t.DailyReturn
	case ColumnMA5:
		return t.MA5
	case ColumnMA20:
		return t.MA20
	case ColumnMA50:
		return t.MA50
	case ColumnVolumeChange:
		return t.VolumeChange
	case ColumnHighLowDifference:
		return t.HighLowDifference
	case ColumnRollingVolatility20:
		return t.RollingVolatility20
	case ColumnRollingMean20:
		return t.RollingMean20
	}
	return nil
}

func (t *PriceTable) rawColumn(get func(PriceRecord) float64) []float64 {
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = get(r)
	}
	return out
}

// Column names used across the pipeline and presentation layers.
const (
	ColumnDate                = "Date"
	ColumnOpen                = "Open"
	ColumnHigh                = "High"
	ColumnLow                 = "Low"
	ColumnClose               = "Close"
	ColumnVolume              = "Volume"
	ColumnTrades              = "Trades"
	ColumnVWAP                = "VWAP"
	ColumnDailyReturn         = "Daily_Return"
	ColumnMA5                 = "MA5"
	ColumnMA20                = "MA20"
	ColumnMA50                = "MA50"
	ColumnVolumeChange        = "Volume_Change"
	ColumnHighLowDifference   = "High_Low_Difference"
	ColumnRollingVolatility20 = "Rolling_Volatility_20"
	ColumnRollingMean20       = "Rolling_Mean_20"
	ColumnMonth               = "Month"
)

// AllColumns lists every column of the enriched table in display order.
func AllColumns() []string {
	return []string{
		ColumnDate, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose,
		ColumnVolume, ColumnTrades, ColumnVWAP,
		ColumnDailyReturn, ColumnMA5, ColumnMA20, ColumnMA50,
		ColumnVolumeChange, ColumnHighLowDifference,
		ColumnRollingVolatility20, ColumnRollingMean20, ColumnMonth,
	}
}

// IsDefined reports whether v carries a defined value (not NaN).
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}
