package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON structure returned to clients. The error field
// carries a short category label, message the human-readable detail.
type ErrorResponse struct {
	Error         string         `json:"error"`
	Message       string         `json:"message"`
	Code          ErrorCode      `json:"code,omitempty"`
	Retryable     bool           `json:"retryable"`
	Details       map[string]any `json:"details,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}

var codeTitles = map[ErrorCode]string{
	ErrCodeAuthentication:   "Authentication failed",
	ErrCodeAuthorization:    "Access denied",
	ErrCodeTokenExpired:     "Token expired",
	ErrCodeInvalidToken:     "Invalid token",
	ErrCodeAccountLocked:    "Account locked",
	ErrCodeValidation:       "Validation error",
	ErrCodeBusiness:         "Request rejected",
	ErrCodeNotFound:         "Not found",
	ErrCodeConflict:         "Conflict",
	ErrCodeRateLimited:      "Rate limit exceeded",
	ErrCodeDatabase:         "Database error",
	ErrCodeExternalService:  "Service error",
	ErrCodeTimeout:          "Gateway timeout",
	ErrCodeConnectionFailed: "Service unavailable",
	ErrCodeConfiguration:    "Configuration error",
	ErrCodeInternal:         "Internal server error",
}

// Title returns the short human-readable label for an error code.
func (c ErrorCode) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return "Error"
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
// The correlation ID may be empty when the error occurs outside a request.
func (e *AppError) ToResponse(correlationID string) ErrorResponse {
	return ErrorResponse{
		Error:         e.Code.Title(),
		Message:       e.Message,
		Code:          e.Code,
		Retryable:     e.Retryable,
		Details:       e.Details,
		CorrelationID: correlationID,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
