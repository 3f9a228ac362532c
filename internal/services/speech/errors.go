package speech

import (
	"errors"
	"fmt"
)

// Common speech service errors
var (
	ErrSpeechFailed = errors.New("speech rendering failed")
	ErrEmptyText    = errors.New("no text to render")
)

// RenderError provides context about which narration part failed to render
type RenderError struct {
	Part string
	Err  error
}

func (e RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Part, e.Err)
}

func (e RenderError) Unwrap() error {
	return e.Err
}

func (e RenderError) Is(target error) bool {
	return target == ErrSpeechFailed
}

// NewRenderError creates a RenderError for the given narration part
func NewRenderError(part string, err error) error {
	return RenderError{Part: part, Err: err}
}
