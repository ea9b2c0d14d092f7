// Package server provides the unified HTTP server used by every
// service: Gin with HTTP/2 h2c support, the standard request pipeline,
// and the default operational endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - CorrelationID: correlation ID resolution and propagation
//   - ErrorHandler: panic recovery and error envelope normalization
//   - CORS: cross-origin resource sharing
//   - RateLimit: per-client sliding-window rate limiting
//   - AuthGate: bearer token extraction for gateway routes
//   - BodySize: request body size limits
//   - Logging: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: health check aggregation
//   - /alive, /ready: Kubernetes probes
//   - /info, /version: service and build information
//   - /metrics: runtime memory and goroutine metrics
package server
