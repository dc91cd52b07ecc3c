package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of a single CLI invocation. The registry is
// private so nothing leaks into the global default one.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	ReportsTotal  *prometheus.CounterVec
}

// NewMetrics constructs and registers the weather CLI metrics.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Weather provider requests by result",
			},
			[]string{"result"},
		),

		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Histogram of weather provider request latencies",
				Buckets:   prometheus.DefBuckets,
			},
		),

		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Weather reports by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.ReportsTotal,
	)

	return m
}

func (m *Metrics) ObserveFetch(result string, d time.Duration) {
	m.FetchTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveReport(outcome string) {
	m.ReportsTotal.WithLabelValues(outcome).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
