package httpclient

import (
	"net/http"
	"net/url"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters. Repeated keys are sent as
	// repeated parameters.
	Query url.Values
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// BearerToken, when set, is sent as the Authorization header.
	BearerToken string
}

// Response is the result of an HTTP request. Status codes are passed
// through as received, including 4xx and 5xx.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers with multi-value keys intact.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
