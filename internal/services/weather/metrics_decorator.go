package weather

import (
	"context"
	"errors"
	"time"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const resultSuccess = "success"

type fetcher interface {
	Fetch(ctx context.Context, city string) (models.RawPayload, error)
}

type metricsCollector interface {
	ObserveFetch(result string, duration time.Duration)
}

// MetricsDecorator records the outcome and latency of every Fetch.
type MetricsDecorator struct {
	next      fetcher
	collector metricsCollector
}

func NewMetricsDecorator(next fetcher, collector metricsCollector) *MetricsDecorator {
	return &MetricsDecorator{next: next, collector: collector}
}

func (m *MetricsDecorator) Fetch(ctx context.Context, city string) (models.RawPayload, error) {
	start := time.Now()
	payload, err := m.next.Fetch(ctx, city)
	m.collector.ObserveFetch(resultLabel(err), time.Since(start))
	return payload, err
}

func resultLabel(err error) string {
	if err == nil {
		return resultSuccess
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return "invalid_input"
}
