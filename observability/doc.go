// Package observability provides OpenTelemetry tracing and metrics for
// the gateway and the auth service.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("api-gateway"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanUpstreamCall)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("api-gateway"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("api-gateway"))
//
// Per-request spans and metrics are installed as gin middleware:
//
//	engine.Use(observability.RequestTelemetry("api-gateway", metrics))
package observability
