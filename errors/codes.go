package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Authentication/Authorization errors
const (
	// ErrCodeAuthentication indicates the caller could not be authenticated.
	ErrCodeAuthentication ErrorCode = "AUTH_ERROR"
	// ErrCodeAuthorization indicates the caller lacks permission.
	ErrCodeAuthorization ErrorCode = "AUTHZ_ERROR"
	// ErrCodeTokenExpired indicates the authentication token has expired.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeAccountLocked indicates the account is temporarily locked.
	ErrCodeAccountLocked ErrorCode = "ACCOUNT_LOCKED"
)

// Request errors
const (
	// ErrCodeValidation indicates the request payload failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeBusiness indicates a domain rule rejected the operation.
	ErrCodeBusiness ErrorCode = "BUSINESS_ERROR"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND_ERROR"
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT_ERROR"
	// ErrCodeRateLimited indicates the client exceeded the request rate limit.
	ErrCodeRateLimited ErrorCode = "RATE_LIMIT_ERROR"
)

// Infrastructure errors
const (
	// ErrCodeDatabase indicates a storage-layer failure.
	ErrCodeDatabase ErrorCode = "DB_ERROR"
	// ErrCodeExternalService indicates a downstream service failed.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeTimeout indicates a downstream call timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConnectionFailed indicates a downstream service was unreachable.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeConfiguration indicates the service is misconfigured.
	ErrCodeConfiguration ErrorCode = "CONFIG_ERROR"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited:      true,
	ErrCodeDatabase:         true,
	ErrCodeExternalService:  true,
	ErrCodeTimeout:          true,
	ErrCodeConnectionFailed: true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
