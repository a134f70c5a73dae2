package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// StartSpan starts a span named name with attrs converted to attributes.
// Callers must end the returned span. A nil Tracer returns a no-op span.
//
// Example:
//
//	ctx, span := t.StartSpan(ctx, "manager.transform", map[string]interface{}{
//	    "schema": "shop.v1.Order",
//	})
//	defer span.End()
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...map[string]interface{}) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs...)...))
}

// SetAttributes adds attrs to span.
func SetAttributes(span trace.Span, attrs map[string]interface{}) {
	span.SetAttributes(toAttributes(attrs)...)
}

// RecordErrorOnSpan records err on span and marks the span failed. A nil
// err leaves the span untouched.
func RecordErrorOnSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toAttributes(maps ...map[string]interface{}) []attribute.KeyValue {
	var out []attribute.KeyValue
	for _, m := range maps {
		for k, v := range m {
			out = append(out, toAttribute(k, v))
		}
	}
	return out
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int32:
		return attribute.Int64(key, int64(v))
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}
