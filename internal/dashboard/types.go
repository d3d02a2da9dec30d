package dashboard

import (
	"math"

	"stockpulse/pkg/contracts/domain"
)

// Flags are the three independent display toggles. Each one gates its
// section of the dashboard; all default to true.
type Flags struct {
	EDA     bool `json:"eda"`
	Visuals bool `json:"visuals"`
	Metrics bool `json:"metrics"`
}

// DefaultFlags returns the default toggle state with every section shown.
func DefaultFlags() Flags {
	return Flags{EDA: true, Visuals: true, Metrics: true}
}

// Dashboard is the rendered page content. Sections whose toggle is off are
// nil and omitted from the JSON response.
type Dashboard struct {
	EDA     *EDASummary    `json:"eda,omitempty"`
	Charts  []domain.Chart `json:"charts,omitempty"`
	Metrics *KeyMetrics    `json:"metrics,omitempty"`
}

// Render produces the dashboard sections for the enriched table, gated by
// the flags. It never mutates the table.
func Render(table *domain.PriceTable, flags Flags) Dashboard {
	var d Dashboard
	if flags.EDA {
		d.EDA = BuildEDASummary(table)
	}
	if flags.Visuals {
		d.Charts = BuildCharts(table)
	}
	if flags.Metrics {
		d.Metrics = BuildKeyMetrics(table)
	}
	return d
}

// nullable converts a possibly-NaN value to a JSON-safe pointer.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
