package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the dashboard server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	DatasetLoads     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	DatasetsInMemory prometheus.Gauge
}

// NewMetrics creates and registers the application metrics on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_http_requests_total",
			Help: "Total HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockpulse_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DatasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_dataset_loads_total",
			Help: "Dataset load attempts by outcome (loaded, failed).",
		}, []string{"outcome"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockpulse_pipeline_duration_seconds",
			Help:    "Feature pipeline execution time.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		DatasetsInMemory: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockpulse_datasets_in_memory",
			Help: "Datasets currently cached in memory.",
		}),
	}
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
