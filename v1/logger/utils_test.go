package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(tracing bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{Zap: zap.New(core), tracingEnabled: tracing}, logs
}

func TestConvertToZapFields(t *testing.T) {
	l := NewNop()

	fields := l.convertToZapFields(errors.New("boom"), map[string]interface{}{"a": 1}, map[string]interface{}{"b": "x"})
	assert.Len(t, fields, 3)

	assert.Empty(t, l.convertToZapFields(nil))
}

func TestLogLevels(t *testing.T) {
	l, logs := newObservedLogger(false)

	l.Debug("debug", nil, nil)
	l.Info("info", nil, map[string]interface{}{"k": "v"})
	l.Warn("warn", nil, nil)
	l.Error("error", errors.New("bad"), nil)

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "debug", entries[0].Message)
	assert.Equal(t, "v", entries[1].ContextMap()["k"])
	assert.Equal(t, "bad", entries[3].ContextMap()["error"])
}

func TestWithContextAddsTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l, logs := newObservedLogger(true)
	l.InfoWithContext(ctx, "traced", nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestWithContextTracingDisabled(t *testing.T) {
	l, logs := newObservedLogger(false)
	l.WarnWithContext(context.Background(), "plain", nil)

	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel(Debug))
	assert.Equal(t, zap.WarnLevel, parseLevel(Warning))
	assert.Equal(t, zap.ErrorLevel, parseLevel(Error))
	assert.Equal(t, zap.InfoLevel, parseLevel("whatever"))
	assert.Equal(t, zap.WarnLevel, parseLevel("WARN"))
}
