package translator

import (
	"errors"
	"fmt"
)

// ErrMissingText is returned when no text was given to translate.
var ErrMissingText = errors.New("missing text to translate")

// ConnectionError means the request never produced an HTTP response.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// HTTPError is a response with a status other than 200. Message holds the
// endpoint's "error" field when it sent one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
}

// ParseError means a 200 response whose body could not be used.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
