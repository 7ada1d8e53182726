package model

import (
	"errors"
	"fmt"
)

var (
	// ErrContextUnavailable is returned when no video id can be found in the
	// page the user is looking at.
	ErrContextUnavailable = errors.New("could not detect video ID: make sure you are on a video page")

	// ErrMalformedResponse is returned when a successful analysis response lacks
	// required fields or carries invalid counts.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// defaultTransportMessage is used when a failed response carries no error field.
const defaultTransportMessage = "Failed to analyze video"

// TransportError describes an analysis request that could not complete:
// either a network-level failure (StatusCode 0) or a non-success HTTP status.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

// NewTransportError builds a TransportError, falling back to the generic
// message when the backend supplied none.
func NewTransportError(statusCode int, message string, err error) *TransportError {
	if message == "" {
		message = defaultTransportMessage
	}
	return &TransportError{StatusCode: statusCode, Message: message, Err: err}
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("analysis request failed: %s: %v", e.Message, e.Err)
		}
		return "analysis request failed: " + e.Message
	}
	return fmt.Sprintf("analysis request failed (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorKind names the failure category of err, used for the run history and
// API responses. Returns "" for nil and "internal" for anything unclassified.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	switch {
	case errors.Is(err, ErrContextUnavailable):
		return "context_unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.As(err, &transportErr):
		return "transport_failure"
	default:
		return "internal"
	}
}
