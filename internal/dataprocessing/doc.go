// Package dataprocessing turns uploaded OHLCV price files into enriched
// price tables ready for the dashboard.
//
// # Architecture
//
// The package is organized into two main components:
//
// 1. Parser: reads CSV or XLSX uploads and extracts daily price records
// 2. Pipeline: derives the feature columns (returns, moving averages,
// volatility, month grouping) over the parsed records
//
// Supporting rolling/statistics helpers (rolling mean and std, percentile
// clipping, Pearson correlation, histogram binning) live in stats.go and
// are also used by the dashboard package for its descriptive statistics.
//
// # Usage
//
//	records, err := dataprocessing.Parse(logger, "ADANIPORTS.csv", file)
//	if err != nil {
//	    // load error: no table is produced
//	}
//	table, err := dataprocessing.NewPipeline(logger).BuildTable(ctx, records)
//
// # Semantics
//
// Derived columns follow trailing-window conventions: an N-row window is
// undefined (NaN) for the first N-1 rows. Percentage changes are undefined
// on the first row. Volume outliers are winsorized to the 1st/99th
// percentile boundaries rather than removed. Rows missing the Trades value
// are discarded during parsing; a missing required column fails the whole
// load with no partial result.
package dataprocessing
