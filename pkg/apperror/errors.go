package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrConflict         = errors.New("conflict")
	ErrLedgerConflict   = errors.New("ledger conflict")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrInternal         = errors.New("internal server error")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports a caller input that violates a configured bound.
func Validation(field, reason string) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf("%s: %s: %s", ErrValidationFailed, field, reason), ErrValidationFailed)
}

// NotFound reports a referenced entity that does not exist.
func NotFound(entity string) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found", entity), ErrNotFound)
}

// Unauthorized reports a principal without the required ownership or writer relationship.
func Unauthorized(reason string) *AppError {
	return New(http.StatusForbidden, fmt.Sprintf("%s: %s", ErrUnauthorized, reason), ErrUnauthorized)
}

// Conflict reports a violated uniqueness or membership constraint.
func Conflict(reason string) *AppError {
	return New(http.StatusConflict, fmt.Sprintf("%s: %s", ErrConflict, reason), ErrConflict)
}

// LedgerConflict reports an attempt to apply or reverse a score delta twice.
func LedgerConflict(reason string) *AppError {
	return New(http.StatusConflict, fmt.Sprintf("%s: %s", ErrLedgerConflict, reason), ErrLedgerConflict)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrValidationFailed) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrLedgerConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
