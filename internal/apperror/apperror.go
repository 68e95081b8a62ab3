// Package apperror defines the domain error taxonomy shared by the
// service and storage layers. Handlers map these to HTTP status codes;
// nothing below the handler layer knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers absent users and lists.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers name collisions: duplicate list names per
	// owner, duplicate items per list, taken usernames.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCode is returned when an invitation code matches no list.
	ErrInvalidCode = errors.New("invalid invitation code")
	// ErrValidation covers malformed or empty input.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable covers store/network failures. Never retried
	// automatically; the caller re-invokes the action.
	ErrUnavailable = errors.New("store unavailable")
)

// AppError pairs a sentinel with a human-readable message.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports an absent resource, e.g. NotFound("list", id).
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// Conflict reports a name collision.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCode reports an invitation code that matched no list.
func InvalidCode(code string) *AppError {
	return &AppError{
		Err:     ErrInvalidCode,
		Message: fmt.Sprintf("no list matches invitation code %q", code),
	}
}

// ValidationFailed reports bad input on a specific field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unavailable wraps a store or network failure.
func Unavailable(err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("store unavailable: %v", err),
	}
}
