package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no partition contains the requested holding
	ErrNotFound = errors.New("holding not found")

	// ErrQuoteUnavailable is returned by quote providers when no usable price exists.
	// It never reaches callers of the valuation engine.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// NotFoundError wraps ErrNotFound with the missing id
func NotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ValidationError reports a missing or out-of-range required field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InternalError reports a condition that validation should have made unreachable,
// such as a stored holding carrying a type outside the closed enum
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err carries a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
