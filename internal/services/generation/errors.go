package generation

import (
	"errors"
	"fmt"
	"time"
)

// Common generation errors
var (
	ErrLimitExceeded      = errors.New("episode limit exceeded")
	ErrGenerationInFlight = errors.New("generation already in flight")
	ErrRunTimeout         = errors.New("generation run timed out")
	ErrNoSignals          = errors.New("no eligible signals for episode")
)

// LimitError carries the retry hint for a rejected generation request
type LimitError struct {
	UserID     uint
	RetryAfter time.Duration
}

func (e LimitError) Error() string {
	return fmt.Sprintf("user %d is over its episode limit, retry after %s", e.UserID, e.RetryAfter)
}

func (e LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// InFlightError carries the retry hint for a request rejected because a run
// is already in flight for the user
type InFlightError struct {
	UserID     uint
	RetryAfter time.Duration
}

func (e InFlightError) Error() string {
	return fmt.Sprintf("generation already in flight for user %d, retry after %s", e.UserID, e.RetryAfter)
}

func (e InFlightError) Is(target error) bool {
	return target == ErrGenerationInFlight
}

// StageError records which pipeline stage a fatal failure came from
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a StageError for the given pipeline stage
func NewStageError(stage string, err error) error {
	return StageError{Stage: stage, Err: err}
}
