package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/errors"
)

// ContextBearerTokenKey is the gin context key holding the raw bearer
// token extracted by the auth gate.
const ContextBearerTokenKey = "bearer_token"

// AuthGateConfig configures the gateway authentication middleware.
type AuthGateConfig struct {
	// ExcludedPaths bypass the gate entirely. Defaults cover the health
	// and documentation endpoints.
	ExcludedPaths []string `yaml:"excluded_paths" mapstructure:"excluded_paths"`
}

// ApplyDefaults sets the standard exclusion list when none is given.
func (c *AuthGateConfig) ApplyDefaults() {
	if len(c.ExcludedPaths) == 0 {
		c.ExcludedPaths = []string{"/health", "/docs", "/openapi.json"}
	}
}

// AuthGate returns middleware that requires a bearer token on every
// request outside the exclusion list. The token is extracted and stored
// on the context but not verified; cryptographic verification belongs
// to the service that owns the signing key. CORS preflights pass
// through unauthenticated.
func AuthGate(cfg AuthGateConfig) gin.HandlerFunc {
	cfg.ApplyDefaults()
	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" || isExcluded(c.Request.URL.Path, cfg.ExcludedPaths) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, errors.Authentication("Missing authorization header."))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			respondError(c, errors.Authentication("Invalid authorization header format."))
			return
		}

		c.Set(ContextBearerTokenKey, strings.TrimSpace(parts[1]))
		c.Next()
	}
}

func isExcluded(path string, excluded []string) bool {
	for _, p := range excluded {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
