package http

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrInvalidSpec is matched by every request spec construction error.
	ErrInvalidSpec = errors.New("invalid request spec")
	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("transport error")
	// ErrTimeout is matched by a TransportError caused by a deadline.
	ErrTimeout = errors.New("request timed out")
)

// InvalidSpecError reports a malformed RequestSpec.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid request spec: %s %s", e.Field, e.Reason)
}

func (e *InvalidSpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// TransportError is returned when a request could not be completed:
// the connection failed, the body could not be read, or the call timed out.
type TransportError struct {
	Method  string
	URL     string
	Err     error
	timeout bool
}

func newTransportError(method, url string, err error) *TransportError {
	te := &TransportError{Method: method, URL: url, Err: err}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		te.timeout = true
	}
	return te
}

func (e *TransportError) Error() string {
	if e.timeout {
		return fmt.Sprintf("%s %s: timeout: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because its deadline passed.
func (e *TransportError) Timeout() bool {
	return e.timeout
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport || (target == ErrTimeout && e.timeout)
}
