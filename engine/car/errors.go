package car

import (
	"errors"
	"fmt"
)

// Sentinel errors for construction and fuel failures.
var (
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidMake   = errors.New("invalid make")
	ErrInvalidModel  = errors.New("invalid model")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidTurbo  = errors.New("turbo must be true or false")
	ErrInvalidAmount = errors.New("invalid fill amount")
	ErrOutOfGas      = errors.New("out of gas")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
