package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-ems/aems/logger"
)

// Correlation request headers, checked in order. The first one present
// wins; a missing ID is generated.
var correlationHeaders = []string{"X-Correlation-ID", "X-Request-ID", "X-Trace-ID"}

// ContextCorrelationIDKey is the gin context key holding the request's
// correlation ID.
const ContextCorrelationIDKey = "correlation_id"

// CorrelationID returns middleware that resolves the request's
// correlation ID, stores it on the request context for log enrichment,
// and echoes it back on the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		for _, h := range correlationHeaders {
			if v := c.GetHeader(h); v != "" {
				id = v
				break
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextCorrelationIDKey, id)
		ctx := logger.ContextWithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-ID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
