// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors; the HTTP layer maps them to status
// codes with errors.Is/errors.As. The sentinels below are the full set of
// client-visible failure classes — anything that doesn't match one of them
// is treated as an internal error and surfaced as a generic 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// AppError carries a sentinel (for status mapping) plus the human-readable
// detail message the client sees.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // safe to expose in the response body
	Field   string // optional: the input field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports malformed or out-of-range input on the given field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthenticated reports a missing, invalid, or expired credential.
// HTTP handlers map this to 401.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Forbidden reports a valid identity that lacks permission for the
// operation. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotFound reports an absent resource, e.g. NotFound("Post") → "Post not found".
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Conflict reports a unique-constraint violation (duplicate username/email).
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
