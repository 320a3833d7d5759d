package usecase

import (
	"errors"

	"github.com/korey-h/api-yamdb/pkg/utils"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("permission denied")
	ErrAlreadyExists        = errors.New("already exists")
	ErrAlreadyReviewed      = errors.New("already reviewed")
	ErrConfirmationMismatch = errors.New("wrong or expired confirmation code")
	ErrTooManyRequests      = errors.New("too many requests")
	ErrDelivery             = errors.New("email delivery failed")
)

// ValidationError carries per-field messages keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs struct tag validation and wraps failures in a ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
