package bootstrap

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by a Sequence that has already been started.
// The fetch and the mount happen at most once per Sequence.
var ErrAlreadyStarted = errors.New("bootstrap sequence already started")

// NetworkError is returned when the request could not complete at the transport layer.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("requesting %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is returned when the response has a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("requesting %s: unexpected status %d", e.URL, e.StatusCode)
}

// MalformedBodyError is returned when the body is not valid JSON or lacks an
// expected field.
type MalformedBodyError struct {
	Reason string
	Err    error
}

func (e *MalformedBodyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response body: %s: %v", e.Reason, e.Err)
	}
	return "malformed response body: " + e.Reason
}

func (e *MalformedBodyError) Unwrap() error { return e.Err }

// MountError is returned when the payload was received but mounting failed.
type MountError struct {
	Anchor string
	Err    error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mounting root component at %s: %v", e.Anchor, e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }
