// Package gateway implements the edge router: it proxies /api/<service>
// requests to the owning microservice, reports upstream health, and
// translates transport failures into gateway status codes.
package gateway

import (
	"io"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/httpclient"
	"github.com/a-ems/aems/logger"
)

// Hop-by-hop headers per RFC 7230 section 6.1. These describe the
// connection between two peers and must not be forwarded.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards requests to upstream services. Each upstream gets its
// own pooled client with a circuit breaker so one dead service cannot
// exhaust the others' connections.
type Proxy struct {
	registry *Registry
	clients  map[string]*httpclient.Client
	log      *logger.Logger
}

// NewProxy builds a proxy over the registered services.
func NewProxy(cfg Config, registry *Registry, log *logger.Logger) (*Proxy, error) {
	clients := make(map[string]*httpclient.Client, len(registry.names))
	for _, svc := range registry.List() {
		client, err := httpclient.New(svc.Name, httpclient.Config{
			BaseURL:        svc.URL,
			Timeout:        cfg.ProxyTimeout,
			CircuitBreaker: httpclient.DefaultCircuitBreakerConfig(svc.Name),
		})
		if err != nil {
			return nil, err
		}
		clients[svc.Name] = client
	}
	return &Proxy{
		registry: registry,
		clients:  clients,
		log:      log.WithComponent("gateway.proxy"),
	}, nil
}

// Forward proxies the current request to the named service, preserving
// the full /api/<service>/... path. The upstream's status code, body,
// headers, and query pass through untouched; only transport failures
// produce gateway errors (504 timeout, 503 unreachable, 502 otherwise).
func (p *Proxy) Forward(c *gin.Context, service string) {
	client, ok := p.clients[service]
	if !ok {
		respondError(c, errors.NotFound("service", service))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, errors.Internal(err))
		return
	}

	resp, err := client.Do(c.Request.Context(), httpclient.Request{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Headers: forwardableHeaders(c.Request.Header),
		Body:    body,
	})
	if err != nil {
		p.log.WithContext(c.Request.Context()).Error("upstream request failed", logger.Fields(
			logger.FieldService, service,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		))
		respondError(c, gatewayError(service, err))
		return
	}

	for k, values := range resp.Headers {
		// Content-Length is recomputed when the body is written back.
		if isHopByHop(k) || k == "Content-Length" {
			continue
		}
		for _, v := range values {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Data(resp.StatusCode, resp.Headers.Get("Content-Type"), resp.Body)
}

// gatewayError keeps the taxonomy's transport classification (504
// timeout, 503 connect failure, 502 other transport failures) and
// folds anything unrecognized into a 502.
func gatewayError(service string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code {
		case errors.ErrCodeTimeout, errors.ErrCodeConnectionFailed, errors.ErrCodeExternalService:
			return appErr
		}
	}
	return errors.ExternalService(service, err)
}

func respondError(c *gin.Context, appErr *errors.AppError) {
	c.Abort()
	c.JSON(appErr.HTTPStatus, appErr.ToResponse(c.GetString("correlation_id")))
}

// forwardableHeaders copies request headers minus hop-by-hop ones and
// those the transport recomputes.
func forwardableHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isHopByHop(k) || k == "Host" || k == "Content-Length" {
			continue
		}
		if len(v) > 0 {
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

func isHopByHop(key string) bool {
	canonical := textproto.CanonicalMIMEHeaderKey(key)
	for _, h := range hopByHopHeaders {
		if canonical == h {
			return true
		}
	}
	return false
}
