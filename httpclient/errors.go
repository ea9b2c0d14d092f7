package httpclient

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"syscall"

	"github.com/a-ems/aems/errors"
)

// ClassifyTransportError maps a transport-level failure (the request
// never produced a usable response) onto the shared error taxonomy:
// timeouts become TIMEOUT, connect failures CONNECTION_FAILED, and any
// other transport failure (protocol errors, broken responses, body
// reads cut short) EXTERNAL_SERVICE_ERROR. The service name identifies
// the downstream in the client-facing message.
func ClassifyTransportError(service string, err error) *errors.AppError {
	switch {
	case isTimeout(err):
		return errors.Timeout(service).WithCause(err)
	case isConnectFailure(err):
		return errors.ServiceUnavailable(service).WithCause(err)
	default:
		return errors.ExternalService(service, err)
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isConnectFailure reports whether the connection itself could not be
// established, as opposed to a failure after the dial succeeded.
func isConnectFailure(err error) bool {
	var opErr *net.OpError
	if stderrors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return stderrors.Is(err, syscall.ECONNREFUSED)
}

// ClassifyStatus converts a non-2xx response status into a typed error.
// Returns nil for 2xx. Used by service clients that treat error
// statuses as failures; the gateway proxy does not call this and
// forwards statuses untouched.
func ClassifyStatus(service string, statusCode int) *errors.AppError {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized:
		return errors.Authentication("")
	case statusCode == http.StatusForbidden:
		return errors.Authorization("")
	case statusCode == http.StatusNotFound:
		return errors.NotFound(service, "")
	case statusCode == http.StatusTooManyRequests:
		return errors.RateLimited(0)
	case statusCode == http.StatusGatewayTimeout:
		return errors.Timeout(service)
	case statusCode == http.StatusServiceUnavailable:
		return errors.ServiceUnavailable(service)
	case statusCode >= 500:
		return errors.ExternalService(service, nil)
	default:
		return errors.BusinessLogic(http.StatusText(statusCode))
	}
}

// IsRetryable reports whether an error is worth retrying. AppErrors
// carry their own retryable flag; anything else is treated as a
// transient transport failure.
func IsRetryable(err error) bool {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded)
}
