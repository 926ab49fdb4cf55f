package gradient

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const InstrumentationName = "github.com/fyrsmithlabs/pipegrade/internal/gradient"

// Tracer returns the package tracer. It is a no-op unless the process
// installs a tracer provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func runAttributes(runID string, objects int, p Params) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("pipegrade.run_id", runID),
		attribute.Int("pipegrade.objects", objects),
		attribute.Float64("pipegrade.min_gradient_percent", p.MinGradientPercent),
		attribute.Float64("pipegrade.search_radius", p.ManholeSearchRadius),
	}
}

func recordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
