package gateway

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Default upstream endpoints. Each service resolves by its compose/K8s
// DNS name on its well-known port.
var defaultEndpoints = map[string]string{
	"auth":     "http://auth-service:8000",
	"sales":    "http://sales-service:8001",
	"finance":  "http://finance-service:8002",
	"hr":       "http://hr-service:8003",
	"products": "http://products-service:8004",
	"risk":     "http://risk-service:8005",
	"reports":  "http://reports-service:8006",
	"ai":       "http://ai-service:8007",
}

// Config holds gateway routing configuration.
type Config struct {
	// Services maps service names to upstream base URLs. Entries merge
	// over the built-in defaults, so a deployment only overrides what
	// differs.
	Services map[string]string `yaml:"services" mapstructure:"services"`

	// ProxyTimeout bounds a single proxied request (default: 30s).
	ProxyTimeout time.Duration `yaml:"proxy_timeout" mapstructure:"proxy_timeout"`

	// HealthTimeout bounds each upstream health probe (default: 5s).
	HealthTimeout time.Duration `yaml:"health_timeout" mapstructure:"health_timeout"`
}

// ApplyDefaults merges the built-in service endpoints, applies
// SERVICE_<NAME>_URL environment overrides, and fills in zero-valued
// timeouts.
func (c *Config) ApplyDefaults() {
	if c.Services == nil {
		c.Services = make(map[string]string, len(defaultEndpoints))
	}
	for name, endpoint := range defaultEndpoints {
		if _, ok := c.Services[name]; !ok {
			c.Services[name] = endpoint
		}
	}
	for name, endpoint := range endpointEnvOverrides() {
		c.Services[name] = endpoint
	}
	if c.ProxyTimeout <= 0 {
		c.ProxyTimeout = 30 * time.Second
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = 5 * time.Second
	}
}

// endpointEnvOverrides collects SERVICE_<NAME>_URL variables, so
// SERVICE_AUTH_URL=http://localhost:9000 redirects the auth upstream
// without touching the config file.
func endpointEnvOverrides() map[string]string {
	overrides := map[string]string{}
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || pair[1] == "" {
			continue
		}
		name, ok := strings.CutPrefix(pair[0], "SERVICE_")
		if !ok {
			continue
		}
		name, ok = strings.CutSuffix(name, "_URL")
		if !ok || name == "" {
			continue
		}
		overrides[strings.ToLower(name)] = pair[1]
	}
	return overrides
}

// Validate checks that every endpoint is an absolute URL.
func (c *Config) Validate() error {
	for name, endpoint := range c.Services {
		u, err := url.Parse(endpoint)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("gateway.services.%s: invalid endpoint %q", name, endpoint)
		}
	}
	return nil
}
