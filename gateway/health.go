package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/a-ems/aems/logger"
)

// Upstream health statuses. Unreachable is distinct from unhealthy: the
// first means no TCP/HTTP answer at all, the second a non-2xx answer.
const (
	StatusHealthy     = "healthy"
	StatusUnhealthy   = "unhealthy"
	StatusUnreachable = "unreachable"
)

// ServiceStatus is one upstream's probe result.
type ServiceStatus struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Prober checks upstream /health endpoints.
type Prober struct {
	registry *Registry
	client   *http.Client
	timeout  time.Duration
	log      *logger.Logger
}

// NewProber builds a prober over the registered services.
func NewProber(cfg Config, registry *Registry, log *logger.Logger) *Prober {
	return &Prober{
		registry: registry,
		client:   &http.Client{Timeout: cfg.HealthTimeout},
		timeout:  cfg.HealthTimeout,
		log:      log.WithComponent("gateway.health"),
	}
}

// CheckAll probes every registered service concurrently and returns the
// results sorted by service name. The slowest probe bounds the total
// latency, not the sum.
func (p *Prober) CheckAll(ctx context.Context) []ServiceStatus {
	services := p.registry.List()
	statuses := make([]ServiceStatus, len(services))

	var wg sync.WaitGroup
	for i, svc := range services {
		wg.Add(1)
		go func(i int, svc Service) {
			defer wg.Done()
			statuses[i] = ServiceStatus{
				Name:   svc.Name,
				URL:    svc.URL,
				Status: p.probe(ctx, svc),
			}
		}(i, svc)
	}
	wg.Wait()

	return statuses
}

func (p *Prober) probe(ctx context.Context, svc Service) string {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, svc.URL+"/health", nil)
	if err != nil {
		return StatusUnreachable
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("health probe failed", logger.Fields(
			logger.FieldService, svc.Name,
			"error", err.Error(),
		))
		return StatusUnreachable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return StatusHealthy
	}
	return StatusUnhealthy
}
