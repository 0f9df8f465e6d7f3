package ogpilot

import (
	"errors"
	"fmt"
)

// Standard errors for the ogpilot package
var (
	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfiguration  = errors.New("og pilot configuration error")
	ErrNotInitialized = errors.New("service not initialized")

	// ErrInvalidArgument is returned when a required image parameter is missing.
	ErrInvalidArgument = errors.New("og pilot invalid argument")

	// Transport errors. Every transport failure matches ErrRequest.
	ErrRequest          = errors.New("og pilot request failed")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// RequestError describes a failed exchange with the image service: an error
// status, a redirect loop, a TLS failure, a timeout or an unreadable body.
type RequestError struct {
	StatusCode int    // HTTP status, 0 when no response was received
	Body       string // response body for error statuses
	Message    string // human-readable description
	Err        error  // underlying error, if any
}

// Error implements the error interface
func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.StatusCode != 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
	}
	if e.Err != nil && msg == "" {
		msg = e.Err.Error()
	}
	return "OG Pilot request failed: " + msg
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequest so callers can match the whole
// family with errors.Is.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

func configurationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}

func argumentError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
