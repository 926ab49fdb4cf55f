package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func fieldMap(fields []zap.Field) map[string]zap.Field {
	m := make(map[string]zap.Field, len(fields))
	for _, f := range fields {
		m[f.Key] = f
	}
	return m
}

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_Correlation(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-42")
	ctx = WithMediumGroup(ctx, "abwasser")
	ctx = WithRequestID(ctx, "req-7")

	fields := fieldMap(ContextFields(ctx))
	assert.Equal(t, "run-42", fields["run.id"].String)
	assert.Equal(t, "abwasser", fields["medium.group"].String)
	assert.Equal(t, "req-7", fields["request.id"].String)
	assert.NotContains(t, fields, "trace_id")
}

func TestContextFields_SpanContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := fieldMap(ContextFields(ctx))
	assert.Equal(t, traceID.String(), fields["trace_id"].String)
	assert.Equal(t, spanID.String(), fields["span_id"].String)
	assert.Contains(t, fields, "trace_sampled")
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Same(t, tl.Logger, FromContext(ctx))
}
