package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/logger"
	"github.com/a-ems/aems/version"
)

// Router wires the gateway's endpoints: the service catch-all proxy,
// the discovery endpoint, and the gateway's own health check.
type Router struct {
	proxy  *Proxy
	prober *Prober
}

// NewRouter builds the gateway routing layer.
func NewRouter(cfg Config, log *logger.Logger) (*Router, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := NewRegistry(cfg)
	proxy, err := NewProxy(cfg, registry, log)
	if err != nil {
		return nil, err
	}
	return &Router{
		proxy:  proxy,
		prober: NewProber(cfg, registry, log),
	}, nil
}

// MountRoutes registers the gateway endpoints on the engine.
func (rt *Router) MountRoutes(r gin.IRouter) {
	r.GET("/health", rt.Health)
	r.GET("/api/services", rt.ListServices)
	r.Any("/api/:service/*path", rt.ProxyRequest)
}

// Health handles GET /health with the gateway's own status.
func (rt *Router) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "api-gateway",
		"version":   version.GetVersionInfo().Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListServices handles GET /api/services: the registered upstreams with
// their probed health.
func (rt *Router) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": rt.prober.CheckAll(c.Request.Context()),
	})
}

// ProxyRequest handles the /api/:service/*path catch-all.
func (rt *Router) ProxyRequest(c *gin.Context) {
	service := strings.ToLower(c.Param("service"))
	rt.proxy.Forward(c, service)
}
