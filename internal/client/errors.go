package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoResult is matched by every analytics client failure.
// Callers that only care whether a payload arrived use errors.Is(err, ErrNoResult).
var ErrNoResult = errors.New("no result")

// ErrorKind classifies why a backend call produced no result
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindTransport ErrorKind = "transport"
	KindTimeout   ErrorKind = "timeout"
	KindStatus    ErrorKind = "http_status"
	KindDecode    ErrorKind = "decode"
)

// Error is returned by every AnalyticsClient method on failure
type Error struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("%s: request timed out: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrNoResult for every client error
func (e *Error) Is(target error) bool {
	return target == ErrNoResult
}

// KindOf returns the ErrorKind carried by err, or KindNone
func KindOf(err error) ErrorKind {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}
	return KindNone
}

// StatusCodeOf returns the HTTP status carried by err, or 0
func StatusCodeOf(err error) int {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}
	return 0
}

func transportError(op string, err error) *Error {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
