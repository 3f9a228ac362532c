package script

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrSynthesisFailed = errors.New("content synthesis failed")
	ErrEmptyScript     = errors.New("synthesized script is empty")
)

// APIError represents an error from the content-generation API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e APIError) Error() string {
	return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e APIError) Is(target error) bool {
	return target == ErrSynthesisFailed
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) error {
	return APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}
