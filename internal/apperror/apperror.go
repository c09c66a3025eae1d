// Package apperror defines the domain error vocabulary shared by every layer.
//
// Services and repositories return these errors; only the HTTP handlers know
// how to turn them into status codes. Callers match on the sentinels with
// errors.Is and pull out the human-readable detail with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Issue is a single field-level validation problem.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Err     error   // sentinel this error matches
	Message string  // Human-readable error message
	Field   string  // Optional: field causing the error
	Issues  []Issue // Optional: every failing field, for multi-field validation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotOwned reports an owner-scoped lookup that matched nothing.
//
// ANTI-ENUMERATION POLICY:
// A row that does not exist and a row that belongs to someone else produce
// the same error, and it is a not-found error rather than a forbidden one.
// A caller probing ids learns nothing about other users' data.
func NotOwned(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %s not found or you do not have permission", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Issues:  []Issue{{Field: field, Message: message}},
	}
}

// Invalid builds a validation error carrying several field issues.
// The first issue becomes the top-level message.
func Invalid(issues []Issue) *AppError {
	e := &AppError{Err: ErrValidation, Message: "invalid input", Issues: issues}
	if len(issues) > 0 {
		e.Message = issues[0].Message
		e.Field = issues[0].Field
	}
	return e
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or rejected credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
