package energy

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a missing device or reading.
	ErrNotFound = errors.New("energy: not found")
	// ErrBudgetOverlap is returned when a new budget window intersects
	// an existing one.
	ErrBudgetOverlap = errors.New("energy: budget window overlaps an existing budget")
)

// StorageError wraps an underlying persistence failure with the
// operation it happened in.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("energy storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage wraps err as a StorageError, passing nil through.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports malformed client-supplied input. It is
// surfaced to the caller and never crashes the service.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "energy: " + e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
