package agni

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNotAuthenticated is returned when an API call is made before Login.
	ErrNotAuthenticated = errors.New("not authenticated: call Login first")

	// ErrSegmentNotFound is returned when a segment name cannot be resolved.
	ErrSegmentNotFound = errors.New("segment not found")
)

// ErrorClass labels a failure by the phase of the run it belongs to.
type ErrorClass string

const (
	// ErrorClassConfig represents missing or invalid configuration.
	ErrorClassConfig ErrorClass = "config"

	// ErrorClassAuth represents a rejected or failed login.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassFetch represents a failed session/stats query.
	ErrorClassFetch ErrorClass = "fetch"

	// ErrorClassExport represents a failure writing the output file.
	ErrorClassExport ErrorClass = "export"
)

// APIError represents an AGNI request failure with additional context.
type APIError struct {
	StatusCode int
	Endpoint   string
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agni %s error (%s, status %d): %s: %v",
			e.Class, e.Endpoint, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("agni %s error (%s, status %d): %s",
		e.Class, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify returns the error class of err, or ErrorClassFetch when err does not
// carry one. Used to label the error metric and fatal log lines.
func Classify(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ErrorClassFetch
}
