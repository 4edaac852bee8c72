// Package apperrors defines the typed failures returned by every service operation.
// The HTTP-equivalent status of a failure is derived from its Kind only.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable machine-readable category of a failure.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindUpstreamFailure Kind = "UPSTREAM_FAILURE"
	// KindConflict is reserved for optimistic concurrency on toggles.
	KindConflict Kind = "CONFLICT"
)

func (k Kind) String() string {
	return string(k)
}

// Error is an application error with a kind, a human message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to err.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: err}
}

func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Upstream(err error, message string) *Error {
	return Wrap(err, KindUpstreamFailure, message)
}

// KindOf reports the kind of err. Errors that were never classified are
// treated as upstream failures since they originate in the store or media layer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstreamFailure
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// MessageOf returns the human message of err, falling back to a generic text
// for unclassified errors so internals never leak to callers.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// HTTPStatus maps a kind to its HTTP-equivalent status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
