package services

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict means the requested slot is unavailable: outside every
	// availability window, inside a time-off range, or overlapping another
	// appointment.
	ErrConflict = errors.New("time slot not available")
	// ErrNotFound means the referenced appointment/consultation does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the actor is not a participant of the consultation.
	ErrForbidden = errors.New("not authorized for this consultation")
)

// ValidationError reports a malformed request detected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ExternalProviderError wraps a failed call to the meeting provider or the
// notification collaborator. These degrade, they never roll back local writes.
type ExternalProviderError struct {
	Provider string
	Err      error
}

func (e *ExternalProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ExternalProviderError) Unwrap() error { return e.Err }
