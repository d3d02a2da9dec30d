package dataprocessing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse/pkg/contracts/domain"
)

// makeRecords builds n consecutive trading days with Close = base + i.
func makeRecords(n int, base float64) []domain.PriceRecord {
	records := make([]domain.PriceRecord, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = domain.PriceRecord{
			Date:   start.AddDate(0, 0, i),
			Open:   base + float64(i),
			High:   base + float64(i) + 1,
			Low:    base + float64(i) - 1,
			Close:  base + float64(i),
			Volume: int64(1000 + i),
			Trades: int64(10 + i),
			VWAP:   base + float64(i),
		}
	}
	return records
}

func TestBuildTableDerivedColumns(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(60, 100)

	table, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, 60, table.Len())

	t.Run("daily return", func(t *testing.T) {
		assert.True(t, math.IsNaN(table.DailyReturn[0]), "first row undefined")
		assert.InDelta(t, 0.01, table.DailyReturn[1], 1e-12, "100 -> 101")
		assert.InDelta(t, 1.0/158.0, table.DailyReturn[59], 1e-12, "158 -> 159")
	})

	t.Run("moving averages", func(t *testing.T) {
		assert.True(t, math.IsNaN(table.MA5[3]))
		assert.InDelta(t, 102.0, table.MA5[4], 1e-12, "mean of 100..104")
		assert.True(t, math.IsNaN(table.MA20[18]))
		assert.InDelta(t, 109.5, table.MA20[19], 1e-12, "mean of 100..119")
		assert.True(t, math.IsNaN(table.MA50[48]))
		assert.InDelta(t, 124.5, table.MA50[49], 1e-12, "mean of 100..149")
	})

	t.Run("high low difference", func(t *testing.T) {
		for i := range table.HighLowDifference {
			assert.InDelta(t, 2.0, table.HighLowDifference[i], 1e-12)
		}
	})

	t.Run("rolling volatility window", func(t *testing.T) {
		// DailyReturn[0] is NaN, so the first window whose 20 values are
		// all defined ends at index 20.
		assert.True(t, math.IsNaN(table.RollingVolatility20[19]))
		assert.False(t, math.IsNaN(table.RollingVolatility20[20]))
		assert.True(t, math.IsNaN(table.RollingMean20[19]))
		assert.False(t, math.IsNaN(table.RollingMean20[20]))
	})

	t.Run("month column", func(t *testing.T) {
		assert.Equal(t, 1, table.Month[0])
		assert.Equal(t, 2, table.Month[31], "Feb 1 lands at index 31")
	})
}

func TestBuildTableConstantClose(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(30, 100)
	for i := range records {
		records[i].Close = 100
	}

	table, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)

	for i := 1; i < table.Len(); i++ {
		assert.InDelta(t, 0.0, table.DailyReturn[i], 1e-12)
	}
	// Zero returns have zero dispersion.
	assert.InDelta(t, 0.0, table.RollingVolatility20[20], 1e-12)
}

func TestBuildTableSortsByDate(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(10, 100)
	// Shuffle deterministically.
	records[0], records[9] = records[9], records[0]
	records[2], records[5] = records[5], records[2]

	table, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)

	for i := 1; i < table.Len(); i++ {
		assert.True(t, table.Records[i-1].Date.Before(table.Records[i].Date),
			"rows must be chronological")
	}
	// Return at index 1 reflects sorted neighbours, not upload order.
	assert.InDelta(t, 0.01, table.DailyReturn[1], 1e-12)
}

func TestBuildTableWinsorizesVolume(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(200, 100)
	records[42].Volume = 100000000 // extreme outlier
	records[77].Volume = 1         // extreme low

	table, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)

	// k = floor(200*0.01) = 2 per tail; the outliers are pulled in to the
	// surviving order statistics, which lie in the regular 1000..1199 band.
	for _, r := range table.Records {
		assert.GreaterOrEqual(t, r.Volume, int64(1000))
		assert.LessOrEqual(t, r.Volume, int64(1199))
	}
}

func TestBuildTableDoesNotMutateInput(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(100, 100)
	records[10].Volume = 100000000
	original := records[10].Volume

	_, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, original, records[10].Volume)
}

func TestBuildTableDeterministic(t *testing.T) {
	p := NewPipeline(nil)
	records := makeRecords(60, 100)

	a, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)
	b, err := p.BuildTable(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, a.Records, b.Records)
	for i := range a.DailyReturn {
		if math.IsNaN(a.DailyReturn[i]) {
			assert.True(t, math.IsNaN(b.DailyReturn[i]))
		} else {
			assert.Equal(t, a.DailyReturn[i], b.DailyReturn[i])
		}
	}
}

func TestBuildTableEmpty(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.BuildTable(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDataRows)
}
