package endpoint

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// Liveness returns a handler for liveness probes. A response at all means
// the process is up; no dependencies are checked here.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"service":   serviceName,
			"pid":       os.Getpid(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
