package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// ObserveExecution records one function call and its duration.
func (m *Metrics) ObserveExecution(function string, success bool, duration time.Duration) {
	m.executions.WithLabelValues(function, status(success)).Inc()
	m.executionDuration.WithLabelValues(function).Observe(duration.Seconds())
}

// ObserveTransform records one transformation into schema.
func (m *Metrics) ObserveTransform(schema string, success bool, duration time.Duration) {
	m.transforms.WithLabelValues(schema, status(success)).Inc()
	m.transformDuration.WithLabelValues(schema).Observe(duration.Seconds())
}

// ObserveValidation records one function validation.
func (m *Metrics) ObserveValidation(level string, valid bool) {
	m.validations.WithLabelValues(level, strconv.FormatBool(valid)).Inc()
}

// ObserveProduce adds count messages to the topic's counter.
func (m *Metrics) ObserveProduce(topic string, success bool, count int) {
	m.produced.WithLabelValues(topic, status(success)).Add(float64(count))
}

// SetRegisteredFunctions sets the registry size gauge.
func (m *Metrics) SetRegisteredFunctions(n int) {
	m.functions.Set(float64(n))
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := m.counterVec(name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := m.histogramVec(name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: m.namespace, Name: name, Help: help}, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func (m *Metrics) counterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: m.namespace, Name: name, Help: help}, labels)
}

func (m *Metrics) histogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: m.namespace, Name: name, Help: help, Buckets: buckets}, labels)
}
