package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"stockpulse/pkg/contracts/domain"
)

// WinsorLimit is the symmetric tail fraction clipped from the Volume
// distribution during enrichment.
const WinsorLimit = 0.01

// Rolling window sizes for the derived columns.
const (
	WindowMA5        = 5
	WindowMA20       = 20
	WindowMA50       = 50
	WindowVolatility = 20
)

// Pipeline derives the enriched price table from parsed OHLCV records.
// It is a pure transformation: the input slice is never modified and the
// same input always yields the same table.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline creates a feature pipeline with the given logger.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger.With(slog.String("component", "pipeline"))}
}

// BuildTable runs the full derivation sequence over the records:
// sort by date ascending, clip Volume outliers, then compute returns,
// moving averages, volatility and the calendar month column.
func (p *Pipeline) BuildTable(ctx context.Context, records []domain.PriceRecord) (*domain.PriceTable, error) {
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}
	start := time.Now()

	rows := make([]domain.PriceRecord, len(records))
	copy(rows, records)

	// Rolling windows assume chronological order, so enforce it rather
	// than trusting the upload.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	rawVolume := make([]int64, len(rows))
	for i, r := range rows {
		rawVolume[i] = r.Volume
	}
	clipped := WinsorizeInt64(rawVolume, WinsorLimit)
	for i := range rows {
		rows[i].Volume = clipped[i]
	}

	closes := make([]float64, len(rows))
	volumes := make([]float64, len(rows))
	highLow := make([]float64, len(rows))
	months := make([]int, len(rows))
	for i, r := range rows {
		closes[i] = r.Close
		volumes[i] = float64(r.Volume)
		highLow[i] = r.High - r.Low
		months[i] = int(r.Date.Month())
	}

	dailyReturn := PctChange(closes)

	table := &domain.PriceTable{
		Records:             rows,
		DailyReturn:         dailyReturn,
		MA5:                 RollingMean(closes, WindowMA5),
		MA20:                RollingMean(closes, WindowMA20),
		MA50:                RollingMean(closes, WindowMA50),
		VolumeChange:        PctChange(volumes),
		HighLowDifference:   highLow,
		RollingVolatility20: RollingStd(dailyReturn, WindowVolatility),
		RollingMean20:       RollingMean(dailyReturn, WindowVolatility),
		Month:               months,
	}

	p.logger.InfoContext(ctx, "built enriched price table",
		slog.Int("rows", table.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return table, nil
}
