// Package metrics holds the Prometheus collectors shared by the CLI and the
// HTTP façade. Everything is registered on Registry rather than the default
// registerer so a one-shot CLI run exports only promptctl series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry every promptctl collector lives in.
var Registry = prometheus.NewRegistry()

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "promptctl",
			Name:      "generations_total",
			Help:      "Total number of generation calls by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "promptctl",
			Name:      "generation_duration_seconds",
			Help:      "Duration of generation calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"backend"},
	)
)

func init() {
	Registry.MustRegister(generationsTotal, generationDuration)
}

// ObserveGeneration records one finished call.
func ObserveGeneration(backend, outcome string, d time.Duration) {
	if backend == "" {
		backend = "unknown"
	}
	generationsTotal.WithLabelValues(backend, outcome).Inc()
	generationDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// WriteTextfile dumps Registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
