// Package errors provides unified error handling for the A-EMS services.
// It implements a structured error type with machine-readable codes, HTTP
// status mapping, and retryable detection.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Authentication / Authorization ---

// Authentication creates a new AppError for a failed authentication attempt.
// Credential failures must all produce the same message so callers cannot
// distinguish unknown accounts from wrong passwords.
func Authentication(reason string) *AppError {
	if reason == "" {
		reason = "Authentication failed."
	}
	return &AppError{
		Code: ErrCodeAuthentication, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Authorization creates a new AppError for a caller lacking permission.
func Authorization(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{
		Code: ErrCodeAuthorization, Message: reason,
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// TokenExpired creates a new AppError for an expired authentication token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidToken creates a new AppError for an invalid authentication token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// MFARequired creates a new AppError signalling that a second factor is
// pending before tokens can be issued.
func MFARequired() *AppError {
	return &AppError{
		Code: ErrCodeAuthentication, Message: "Multi-factor authentication required.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"mfa_required": true},
	}
}

// PasswordExpired creates a new AppError for a password past its rotation deadline.
func PasswordExpired() *AppError {
	return &AppError{
		Code: ErrCodeAuthentication, Message: "Your password has expired and must be changed.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"password_expired": true},
	}
}

// AccountLocked creates a new AppError for an account locked out after
// repeated failed login attempts.
func AccountLocked(until time.Time) *AppError {
	return &AppError{
		Code: ErrCodeAccountLocked, Message: "Account temporarily locked due to repeated failed login attempts.",
		HTTPStatus: http.StatusLocked, Retryable: false,
		Details: map[string]any{"locked_until": until.UTC().Format(time.RFC3339)},
	}
}

// --- Request errors ---

// Validation creates a new AppError for a request that failed validation.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// BusinessLogic creates a new AppError for a domain rule violation.
func BusinessLogic(message string) *AppError {
	return &AppError{
		Code: ErrCodeBusiness, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Conflict creates a new AppError for a conflict with the current state of the resource.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited(limitPerMinute int) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"limit_per_minute": limitPerMinute},
	}
}

// --- Infrastructure errors ---

// Database creates a new AppError for a storage-layer failure.
func Database(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabase, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}

// ExternalService creates a new AppError for a downstream service failure.
func ExternalService(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// ServiceUnavailable creates a new AppError for an unreachable downstream service.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to the %s service. Please verify it is running.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a downstream call that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Configuration creates a new AppError for a misconfigured service.
func Configuration(key, reason string) *AppError {
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("Invalid configuration for %s: %s", key, reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Wrap normalizes any error into an AppError. AppErrors (including wrapped
// ones) pass through unchanged; everything else becomes Internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
