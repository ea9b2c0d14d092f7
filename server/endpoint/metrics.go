package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const bytesPerMiB = 1024 * 1024

// Metrics returns a handler exposing process runtime statistics. It is a
// lightweight snapshot for dashboards; detailed telemetry goes through the
// OTLP exporters.
func Metrics() gin.HandlerFunc {
	start := time.Now()
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(start).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory": gin.H{
				"heap_alloc_mb": m.HeapAlloc / bytesPerMiB,
				"heap_sys_mb":   m.HeapSys / bytesPerMiB,
				"heap_objects":  m.HeapObjects,
				"sys_mb":        m.Sys / bytesPerMiB,
				"gc_runs":       m.NumGC,
				"gc_pause_ms":   m.PauseTotalNs / uint64(time.Millisecond),
			},
		})
	}
}
