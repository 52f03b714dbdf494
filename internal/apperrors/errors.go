package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures so the transport layer can map them.
type ErrorType string

const (
	TypeValidation ErrorType = "validation"
	TypeNotFound   ErrorType = "not_found"
	TypeStorage    ErrorType = "storage"
	TypePermission ErrorType = "permission"
	TypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Internal: err}
}

// Validation is shorthand for a user input rejection.
func Validation(code, message string) *AppError {
	return New(TypeValidation, code, message)
}

// NotFound is shorthand for a missing entity.
func NotFound(code, message string) *AppError {
	return New(TypeNotFound, code, message)
}

// NotSaved marks a write that did not reach storage.
func NotSaved(err error, collection string) *AppError {
	return Wrap(err, TypeStorage, "not_saved", fmt.Sprintf("changes to %s may not be saved", collection))
}

// TypeOf returns the type of the first AppError in err's chain, or TypeInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}
