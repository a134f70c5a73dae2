package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry, the module's instruments
// and the HTTP server exposing them.
type Metrics struct {
	// Server serves /metrics.
	Server *http.Server

	// Registry holds every instrument of this instance.
	Registry *prometheus.Registry

	namespace  string
	registerer prometheus.Registerer

	executions        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
	transforms        *prometheus.CounterVec
	transformDuration *prometheus.HistogramVec
	validations       *prometheus.CounterVec
	produced          *prometheus.CounterVec
	functions         prometheus.Gauge
}

// NewMetrics creates the registry and instruments described by cfg. Every
// metric carries a constant service label.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "testdatagen"})
//	go m.Server.ListenAndServe()
//	m.ObserveTransform("shop.v1.Order", true, time.Since(start))
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	m := &Metrics{
		Registry:   registry,
		namespace:  cfg.Namespace,
		registerer: wrapped,
	}

	m.executions = m.counterVec("function_executions_total", "Registered function calls by outcome", []string{"function", "status"})
	m.executionDuration = m.histogramVec("function_execution_duration_seconds", "Registered function call latency", []string{"function"}, prometheus.DefBuckets)
	m.transforms = m.counterVec("transformations_total", "Message transformations by outcome", []string{"schema", "status"})
	m.transformDuration = m.histogramVec("transformation_duration_seconds", "Message transformation latency", []string{"schema"}, prometheus.DefBuckets)
	m.validations = m.counterVec("function_validations_total", "Function validations by level and result", []string{"level", "valid"})
	m.produced = m.counterVec("messages_produced_total", "Messages written to Kafka by outcome", []string{"topic", "status"})
	m.functions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "registered_functions",
		Help:      "Functions currently registered",
	})

	wrapped.MustRegister(
		m.executions,
		m.executionDuration,
		m.transforms,
		m.transformDuration,
		m.validations,
		m.produced,
		m.functions,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}
