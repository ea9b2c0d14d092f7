package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/logger"
)

// ErrorHandler returns the outermost middleware of the request pipeline.
// It recovers panics, turns errors attached to the gin context into
// structured responses, and guarantees every failure leaves the server
// as the standard error envelope.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})
				respondError(c, errors.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, errors.Wrap(c.Errors.Last().Err))
		}
	}
}

// respondError writes the structured error envelope with the request's
// correlation ID. Middleware cannot use the server package helpers
// without an import cycle, so the envelope is built here.
func respondError(c *gin.Context, appErr *errors.AppError) {
	c.Abort()
	c.JSON(appErr.HTTPStatus, appErr.ToResponse(c.GetString(ContextCorrelationIDKey)))
}
