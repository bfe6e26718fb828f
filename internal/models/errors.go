package models

import "errors"

// ValidationError is a local, recoverable refusal: the operation is a
// no-op and the reason is reported to the caller.
type ValidationError struct {
	Reason string
}

// NewValidationError creates a validation refusal with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a validation refusal.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound marks a lookup for an id that does not exist. Stores
// wrap it so callers can test with errors.Is across layers.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err stems from a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
