package services

import (
	"errors"
)

// ErrMissingField matches every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError names a required field that was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return ErrMissingField.Error() + ": " + e.Field
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missingField(field string) error {
	return &MissingFieldError{Field: field}
}
