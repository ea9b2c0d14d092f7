// Package resilience provides patterns for fault-tolerant downstream
// calls.
//
// This package includes:
//   - CircuitBreaker: fails fast when a downstream keeps failing
//   - Retry: retries failed operations with exponential backoff
//
// The patterns compose:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("sales"))
//	result, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (*Response, error) {
//	    var resp *Response
//	    err := cb.Execute(func() error {
//	        var callErr error
//	        resp, callErr = call()
//	        return callErr
//	    })
//	    return resp, err
//	})
package resilience
