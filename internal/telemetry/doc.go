// Package telemetry sets up OpenTelemetry tracing for pipegrade.
//
// Gradient runs and HTTP requests are traced through the global otel API;
// this package decides where those spans go. With telemetry disabled,
// which is the default, spans are dropped by the no-op provider. When
// enabled, spans are batched to an OTLP collector over gRPC or
// HTTP/protobuf:
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	adjuster, err := gradient.NewAdjuster(params, strategy,
//	    gradient.WithTracer(tel.Tracer(gradient.InstrumentationName)))
//
// Metrics are exported by Prometheus, not OTLP.
package telemetry
