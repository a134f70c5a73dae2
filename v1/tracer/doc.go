// Package tracer wires OpenTelemetry tracing.
//
// With tracing disabled every span is a no-op. Enabled, spans are sampled
// by Config.SamplingRate and, when an endpoint is configured, exported over
// OTLP/HTTP, or OTLP/gRPC with Protocol "grpc". Loggers built with
// EnableTracing pick the span context up from the context.Context and add
// trace_id and span_id to their entries.
//
//	t, err := tracer.NewClient(tracer.Config{Enabled: true, Endpoint: "otel-collector:4318", Insecure: true})
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(context.Background())
//
//	ctx, span := t.StartSpan(ctx, "produce", map[string]interface{}{"topic": "users"})
//	defer span.End()
//
// # Recording Errors and Attributes
//
//	tracer.SetAttributes(span, map[string]interface{}{"records": n})
//	if err != nil {
//		tracer.RecordErrorOnSpan(span, err)
//	}
//
// Both helpers work on no-op spans, so call sites do not check whether
// tracing is on. RecordErrorOnSpan ignores a nil error.
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		fx.Supply(tracer.Config{Enabled: true, Endpoint: "otel-collector:4317", Protocol: tracer.ProtocolGRPC}),
//	)
//
// The module flushes buffered spans when the application stops.
//
// # Configuration
//
//	TRACER_ENABLED=true
//	TRACER_SERVICE_NAME=testdatagen
//	TRACER_ENDPOINT=otel-collector:4318
//	TRACER_PROTOCOL=http            # http or grpc
//	TRACER_INSECURE=true
//	TRACER_SAMPLING_RATE=0.25       # parent-based ratio sampler
//	TRACER_EXPORT_TIMEOUT=10s
//
// # Testing
//
// NewWithProvider accepts any SDK provider, which lets tests record spans
// with tracetest.NewSpanRecorder.
package tracer
