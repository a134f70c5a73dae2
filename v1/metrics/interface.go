package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the metrics contract of the module. *Metrics
// implements it; tests may substitute their own.
type MetricsCollector interface {
	// ObserveExecution records one function call and its duration.
	ObserveExecution(function string, success bool, duration time.Duration)

	// ObserveTransform records one transformation into schema.
	ObserveTransform(schema string, success bool, duration time.Duration)

	// ObserveValidation records one function validation at level.
	ObserveValidation(level string, valid bool)

	// ObserveProduce records messages written to a topic.
	ObserveProduce(topic string, success bool, count int)

	// SetRegisteredFunctions sets the registry size gauge.
	SetRegisteredFunctions(n int)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
