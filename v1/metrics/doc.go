// Package metrics exposes the module's Prometheus instruments.
//
// Each Metrics value owns an isolated registry, so tests and multiple
// instances in one process never collide. Every metric is prefixed with
// Config.Namespace and labelled with service=Config.ServiceName.
//
// Instruments:
//
//	<ns>_function_executions_total{function,status}
//	<ns>_function_execution_duration_seconds{function}
//	<ns>_transformations_total{schema,status}
//	<ns>_transformation_duration_seconds{schema}
//	<ns>_function_validations_total{level,valid}
//	<ns>_messages_produced_total{topic,status}
//	<ns>_registered_functions
//
// Go runtime, process and build info collectors are added when
// EnableDefaultCollectors is set. Components accept the MetricsCollector
// interface; *Metrics is the implementation.
//
// Configuration via environment:
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=testdatagen
//	METRICS_SERVICE_NAME=testdatagen
package metrics
