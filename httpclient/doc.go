// Package httpclient provides the HTTP client used for
// service-to-service calls. It offers connection pooling, optional
// retry and circuit breaking, and maps transport failures onto the
// shared error taxonomy so callers see the same error codes the edge
// returns.
//
// Response status codes are passed through untouched. Callers that
// want typed errors for non-2xx statuses use ClassifyStatus.
package httpclient
