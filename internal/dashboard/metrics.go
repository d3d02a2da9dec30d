package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"stockpulse/internal/dataprocessing"
	"stockpulse/pkg/contracts/domain"
)

// KeyMetrics are the three scalar summaries shown above the charts,
// pre-formatted for display.
type KeyMetrics struct {
	AvgDailyReturn string `json:"avg_daily_return"`
	Volatility     string `json:"volatility"`
	AvgVolume      string `json:"avg_volume"`
}

// BuildKeyMetrics computes the key-metric strings from the enriched table.
func BuildKeyMetrics(table *domain.PriceTable) *KeyMetrics {
	avgReturn := dataprocessing.Mean(table.DailyReturn)
	stdReturn := dataprocessing.Std(table.DailyReturn)
	avgVolume := dataprocessing.Mean(table.Column(domain.ColumnVolume))

	return &KeyMetrics{
		AvgDailyReturn: formatFixed(avgReturn, 4),
		Volatility:     formatFixed(stdReturn, 4),
		AvgVolume:      formatVolume(avgVolume),
	}
}

func formatFixed(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func formatVolume(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return humanize.Comma(int64(math.Round(v)))
}
