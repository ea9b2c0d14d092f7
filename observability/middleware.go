package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RequestTelemetry returns gin middleware that opens a span per request
// and records request metrics. Metrics may be nil, in which case only
// the span is produced.
func RequestTelemetry(service string, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := StartSpan(c.Request.Context(), SpanHTTPRequest,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String(AttrServiceName, service),
				attribute.String(AttrHTTPMethod, c.Request.Method),
				attribute.String(AttrHTTPRoute, route),
			),
		)
		if correlationID := c.GetString("correlation_id"); correlationID != "" {
			span.SetAttributes(attribute.String(AttrCorrelationID, correlationID))
		}
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		if metrics != nil {
			metrics.RecordRequestStart(ctx)
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int(AttrHTTPStatus, status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last().Err)
		}
		span.End()

		if metrics != nil {
			metrics.RecordRequestEnd(ctx, service, c.Request.Method, route, status, time.Since(start))
		}
	}
}
