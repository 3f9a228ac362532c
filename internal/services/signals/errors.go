package signals

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrSignalNotFound    = errors.New("signal not found")
	ErrNoEligibleSignals = errors.New("no eligible signals")
	ErrSelectionInvalid  = errors.New("invalid signal selection")
)

// NotFoundError represents an error when a signal is not found
type NotFoundError struct {
	ID interface{}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("signal with identifier %v not found", e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrSignalNotFound
}

// SelectionError describes why an explicit selection was rejected
type SelectionError struct {
	SignalID uint
	Reason   string
}

func (e SelectionError) Error() string {
	return fmt.Sprintf("signal %d cannot be selected: %s", e.SignalID, e.Reason)
}

func (e SelectionError) Is(target error) bool {
	return target == ErrSelectionInvalid
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(id interface{}) error {
	return NotFoundError{ID: id}
}

// NewSelectionError creates a new SelectionError
func NewSelectionError(signalID uint, reason string) error {
	return SelectionError{SignalID: signalID, Reason: reason}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFoundErr NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrSignalNotFound)
}
