// Package errors defines the structured error types shared by gopool packages.
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the sentinel every ValidationError unwraps to.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ValidationError describes a rejected configuration or argument value.
type ValidationError struct {
	Module  string
	Field   string
	Value   interface{}
	Message string
	Hint    string
}

// NewValidationError creates a ValidationError for module.field.
func NewValidationError(module, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Module:  module,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// WithHint attaches a remediation hint and returns the same error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s (%v): %s", e.Module, e.Field, e.Value, e.Message)
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
