package backend

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrorKind classifies a backend failure for mapping onto an HTTP status
type ErrorKind int

const (
	// KindInternal is any unexpected failure building the request or parsing the reply
	KindInternal ErrorKind = iota
	// KindUnavailable is a transport failure reaching the backend, timeouts included
	KindUnavailable
	// KindStatus is a reachable backend answering with a non-200 status
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	case KindStatus:
		return "status"
	}
	return "unknown"
}

// Error is returned by backends for every failed call
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Cause supports errors.Cause from github.com/pkg/errors
func (e *Error) Cause() error { return e.Err }

// HTTPStatus returns the status the gateway answers with for this error
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindStatus:
		if e.StatusCode > 0 {
			return e.StatusCode
		}
	}
	return http.StatusInternalServerError
}

// Detail returns the message exposed to the caller. Backend error bodies are
// never forwarded; a non-200 reply only reports its status code.
func (e *Error) Detail() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Error()
}

// NewStatusError reports a non-200 backend reply
func NewStatusError(statusCode int) *Error {
	return &Error{
		Kind:       KindStatus,
		StatusCode: statusCode,
		Err:        errors.Errorf("backend returned status %d", statusCode),
	}
}

// NewUnavailableError reports a transport level failure
func NewUnavailableError(err error) *Error {
	return &Error{Kind: KindUnavailable, Err: err}
}

// NewInternalError reports any other failure
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// AsError extracts a *Error from err. Errors that are not one are treated as
// internal.
func AsError(err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return NewInternalError(err)
}
