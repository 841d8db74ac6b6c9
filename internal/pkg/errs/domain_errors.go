package errs

import "errors"

// Cross-cutting sentinel errors shared by the usecase and handler layers
var (
	// Input errors
	ErrValidation = errors.New("validation error")

	// Caller errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrForbidden         = errors.New("forbidden")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
