package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/baharkarakas/charity-donations/internal/payment"
)

// ValidationError wraps the per-field errors of a rejected request. Nothing was written.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Err: validation.Errors{field: errors.New(msg)}}
}

// ProcessorError is a charge the processor refused or could not complete. Nothing was written.
// Message is the processor's own text.
type ProcessorError struct {
	Status  payment.Status
	Message string
	Err     error
}

func (e *ProcessorError) Error() string { return e.Message }
func (e *ProcessorError) Unwrap() error { return e.Err }
