package dashboard

import (
	"fmt"
	"math"

	"stockpulse/internal/dataprocessing"
	"stockpulse/pkg/contracts/domain"
)

// Histogram bin counts used by the fixed chart set.
const (
	priceHistogramBins  = 30
	returnHistogramBins = 50
)

// correlationColumns is the fixed 12-column subset of the heatmap.
var correlationColumns = []string{
	domain.ColumnOpen,
	domain.ColumnHigh,
	domain.ColumnLow,
	domain.ColumnClose,
	domain.ColumnVWAP,
	domain.ColumnVolume,
	domain.ColumnDailyReturn,
	domain.ColumnMA5,
	domain.ColumnMA20,
	domain.ColumnMA50,
	domain.ColumnVolumeChange,
	domain.ColumnHighLowDifference,
}

// BuildCharts produces the nine fixed chart artifacts in display order.
// Every chart is independent of the others.
func BuildCharts(table *domain.PriceTable) []domain.Chart {
	return []domain.Chart{
		priceHistograms(table),
		pricesOverTime(table),
		volumeOverTime(table),
		movingAverages(table),
		returnDistributions(table),
		correlationHeatmap(table),
		volatilityTrend(table),
		volumeReturnScatter(table),
		monthlyReturns(table),
	}
}

func priceHistograms(table *domain.PriceTable) domain.Chart {
	cols := []string{
		domain.ColumnOpen, domain.ColumnHigh, domain.ColumnLow,
		domain.ColumnClose, domain.ColumnVolume,
	}
	hists := make([]domain.Histogram, 0, len(cols))
	for _, col := range cols {
		edges, counts := dataprocessing.HistogramBins(table.Column(col), priceHistogramBins)
		hists = append(hists, domain.Histogram{Name: col, Edges: edges, Counts: counts})
	}
	return domain.Chart{
		ID:         "price_histograms",
		Kind:       domain.ChartKindHistogramGrid,
		Title:      "Price Distribution Histograms",
		Histograms: hists,
	}
}

func pricesOverTime(table *domain.PriceTable) domain.Chart {
	return domain.Chart{
		ID:    "prices_over_time",
		Kind:  domain.ChartKindMultiLine,
		Title: "Stock Prices Over Time",
		Series: []domain.Series{
			timeSeries(table, domain.ColumnOpen, "Open"),
			timeSeries(table, domain.ColumnHigh, "High"),
			timeSeries(table, domain.ColumnLow, "Low"),
			timeSeries(table, domain.ColumnClose, "Close"),
		},
	}
}

func volumeOverTime(table *domain.PriceTable) domain.Chart {
	return domain.Chart{
		ID:     "volume_over_time",
		Kind:   domain.ChartKindLine,
		Title:  "Trading Volume Over Time",
		Series: []domain.Series{timeSeries(table, domain.ColumnVolume, "Volume")},
	}
}

func movingAverages(table *domain.PriceTable) domain.Chart {
	return domain.Chart{
		ID:    "moving_averages",
		Kind:  domain.ChartKindMultiLine,
		Title: "Close Price with Moving Averages",
		Series: []domain.Series{
			timeSeries(table, domain.ColumnClose, "Close Price"),
			timeSeries(table, domain.ColumnMA5, "5-day MA"),
			timeSeries(table, domain.ColumnMA20, "20-day MA"),
			timeSeries(table, domain.ColumnMA50, "50-day MA"),
		},
	}
}

func returnDistributions(table *domain.PriceTable) domain.Chart {
	retEdges, retCounts := dataprocessing.HistogramBins(table.DailyReturn, returnHistogramBins)
	volEdges, volCounts := dataprocessing.HistogramBins(table.VolumeChange, returnHistogramBins)
	return domain.Chart{
		ID:    "return_distributions",
		Kind:  domain.ChartKindHistogramPair,
		Title: "Distribution of Returns & Volume Change",
		Histograms: []domain.Histogram{
			{Name: "Daily Return", Edges: retEdges, Counts: retCounts},
			{Name: "Volume Change", Edges: volEdges, Counts: volCounts},
		},
	}
}

func correlationHeatmap(table *domain.PriceTable) domain.Chart {
	n := len(correlationColumns)
	columns := make([][]float64, n)
	for i, col := range correlationColumns {
		columns[i] = table.Column(col)
	}

	values := make([][]*float64, n)
	annotations := make([][]string, n)
	for i := 0; i < n; i++ {
		values[i] = make([]*float64, n)
		annotations[i] = make([]string, n)
		for j := 0; j < n; j++ {
			r := dataprocessing.Pearson(columns[i], columns[j])
			if math.IsNaN(r) {
				continue
			}
			values[i][j] = &r
			annotations[i][j] = fmt.Sprintf("%.2f", r)
		}
	}

	return domain.Chart{
		ID:    "correlation_heatmap",
		Kind:  domain.ChartKindHeatmap,
		Title: "Correlation Matrix Heatmap",
		Heatmap: &domain.Heatmap{
			Labels:      correlationColumns,
			Values:      values,
			Annotations: annotations,
		},
	}
}

func volatilityTrend(table *domain.PriceTable) domain.Chart {
	return domain.Chart{
		ID:     "volatility_trend",
		Kind:   domain.ChartKindLine,
		Title:  "Rolling Volatility (20 Days)",
		Series: []domain.Series{timeSeries(table, domain.ColumnRollingVolatility20, "Rolling Volatility")},
	}
}

func volumeReturnScatter(table *domain.PriceTable) domain.Chart {
	scatter := &domain.ScatterData{
		XLabel: "Volume Change",
		YLabel: "Daily Return",
	}
	for i := range table.Records {
		x := table.VolumeChange[i]
		y := table.DailyReturn[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		scatter.X = append(scatter.X, x)
		scatter.Y = append(scatter.Y, y)
	}
	return domain.Chart{
		ID:      "volume_return_scatter",
		Kind:    domain.ChartKindScatter,
		Title:   "Volume Change vs Daily Return",
		Scatter: scatter,
	}
}

func monthlyReturns(table *domain.PriceTable) domain.Chart {
	sums := make([]float64, 13)
	counts := make([]int, 13)
	for i := range table.Records {
		r := table.DailyReturn[i]
		if math.IsNaN(r) {
			continue
		}
		m := table.Month[i]
		sums[m] += r
		counts[m]++
	}

	// The x axis stays fixed at months 1-12 even when the upload covers
	// only part of a year.
	bars := &domain.BarData{
		XLabel:     "Month",
		YLabel:     "Mean Daily Return",
		Categories: make([]int, 0, 12),
		Values:     make([]*float64, 0, 12),
	}
	for m := 1; m <= 12; m++ {
		bars.Categories = append(bars.Categories, m)
		if counts[m] == 0 {
			bars.Values = append(bars.Values, nil)
			continue
		}
		mean := sums[m] / float64(counts[m])
		bars.Values = append(bars.Values, &mean)
	}

	return domain.Chart{
		ID:    "monthly_returns",
		Kind:  domain.ChartKindBar,
		Title: "Average Daily Return by Month",
		Bars:  bars,
	}
}

func timeSeries(table *domain.PriceTable, col, name string) domain.Series {
	values := table.Column(col)
	s := domain.Series{
		Name: name,
		X:    make([]string, table.Len()),
		Y:    make([]*float64, table.Len()),
	}
	for i, r := range table.Records {
		s.X[i] = r.Date.Format("2006-01-02")
		s.Y[i] = nullable(values[i])
	}
	return s
}
