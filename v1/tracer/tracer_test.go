package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	tr, err := NewClient(Config{})
	require.NoError(t, err)

	ctx, span := tr.StartSpan(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NotNil(t, ctx)
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestSpansAreRecorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tr := NewWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer func() { assert.NoError(t, tr.Shutdown(context.Background())) }()

	_, span := tr.StartSpan(context.Background(), "transform", map[string]interface{}{
		"schema": "testdata.v1.User",
		"count":  3,
	})
	RecordErrorOnSpan(span, errors.New("boom"))
	RecordErrorOnSpan(span, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "transform", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("schema", "testdata.v1.User"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("count", 3))
	assert.Len(t, ended[0].Events(), 1)
}

func TestEnabledWithoutEndpoint(t *testing.T) {
	tr, err := NewClient(Config{Enabled: true, SamplingRate: 1})
	require.NoError(t, err)
	_, span := tr.StartSpan(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestExporterProtocols(t *testing.T) {
	for _, protocol := range []string{"", ProtocolHTTP, ProtocolGRPC} {
		exp, err := newExporter(Config{Endpoint: "localhost:4317", Protocol: protocol, Insecure: true})
		require.NoError(t, err, protocol)
		require.NotNil(t, exp)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = exp.Shutdown(ctx)
		cancel()
	}

	_, err := NewClient(Config{Enabled: true, Endpoint: "localhost:4317", Protocol: "carrier-pigeon"})
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestNilTracer(t *testing.T) {
	var tr *Tracer
	ctx, span := tr.StartSpan(context.Background(), "nil")
	assert.NotNil(t, ctx)
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))
}
