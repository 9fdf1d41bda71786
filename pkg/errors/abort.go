// Package errors provides abort errors: errors that carry their own HTTP status,
// reason and response headers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

// AbortError is implemented by errors that know how they should be answered.
type AbortError interface {
	error
	Status() int
	Reason() string
	Headers() http.Header
}

// Abort is the default AbortError implementation.
type Abort struct {
	status  int
	reason  string
	headers http.Header
	cause   error
}

var _ AbortError = (*Abort)(nil)

// New returns an abort error for status. An empty reason falls back to the
// standard status text.
func New(status int, reason string) *Abort {
	if reason == "" {
		reason = http.StatusText(status)
	}
	return &Abort{status: status, reason: reason}
}

// Newf is New with a formatted reason.
func Newf(status int, format string, args ...any) *Abort {
	return New(status, fmt.Sprintf(format, args...))
}

var (
	BadRequest      = New(http.StatusBadRequest, "")
	Unauthorized    = New(http.StatusUnauthorized, "")
	Forbidden       = New(http.StatusForbidden, "")
	NotFound        = New(http.StatusNotFound, "")
	Conflict        = New(http.StatusConflict, "")
	Unprocessable   = New(http.StatusUnprocessableEntity, "")
	TooManyRequests = New(http.StatusTooManyRequests, "")
	Internal        = New(http.StatusInternalServerError, "")
	Unavailable     = New(http.StatusServiceUnavailable, "")
)

// Error implements error
func (e *Abort) Error() string {
	str := fmt.Sprintf("%d %s", e.status, e.reason)
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

func (e *Abort) Status() int {
	return e.status
}

func (e *Abort) Reason() string {
	return e.reason
}

// Headers returns a copy of the headers to send with the response.
func (e *Abort) Headers() http.Header {
	if e.headers == nil {
		return http.Header{}
	}
	return e.headers.Clone()
}

func (e *Abort) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Explain returns a copy of the error with the given reason
func (e *Abort) Explain(reason string, args ...any) *Abort {
	err := e.clone()
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	err.reason = reason
	return err
}

// WithHeader returns a copy of the error that also sets header key to value.
func (e *Abort) WithHeader(key, value string) *Abort {
	err := e.clone()
	err.headers.Add(key, value)
	return err
}

// Wrap returns a copy of the error with cause attached
func (e *Abort) Wrap(cause error) *Abort {
	err := e.clone()
	err.cause = cause
	return err
}

func (e *Abort) clone() *Abort {
	err := *e
	if e.headers != nil {
		err.headers = e.headers.Clone()
	} else {
		err.headers = http.Header{}
	}
	return &err
}
