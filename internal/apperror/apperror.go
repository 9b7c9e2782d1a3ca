package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AppError is the domain error carried between the service and HTTP layers.
// Fields is populated for validation failures so handlers can render a
// per-field error map; it is nil for every other error kind.
type AppError struct {
	Err     error             // sentinel category (ErrNotFound, ErrValidation, ...)
	Message string            // human-readable error message
	Fields  map[string]string // field → message, validation errors only
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

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// ValidationErrors wraps a map of field errors collected in one pass, so a
// request with several bad fields reports all of them at once.
func ValidationErrors(fields map[string]string) *AppError {
	msg := "validation failed"
	for _, m := range fields {
		msg = m // any single message works for the summary line
		break
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// InvalidCredentials returns the error for a failed login. The message is
// deliberately identical for "unknown username" and "wrong password" so a
// caller cannot probe which usernames exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials",
	}
}
