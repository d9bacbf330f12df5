package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced in handler summary logs via the Code accessor.
const (
	CodeValidation     = "VALIDATION"
	CodeSessionExpired = "SESSION_EXPIRED"
	CodeNotFound       = "NOT_FOUND"
	CodeUnavailable    = "UNAVAILABLE"
)

// Error is a typed domain failure. Core entry points return these instead
// of performing any user-facing reporting themselves.
type Error struct {
	code string
	msg  string
	err  error
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Code returns the stable machine-readable error code.
func (e *Error) Code() string { return e.code }

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is matches sentinel errors by code so wrapped variants still compare.
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return e.code == de.code
	}
	return false
}

// Validation constructs a recoverable input error; the state machine stays
// on the same step.
func Validation(format string, args ...any) error {
	return &Error{code: CodeValidation, msg: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a store or transport failure during a primary operation.
// The operation is treated as not applied.
func Unavailable(op string, err error) error {
	return &Error{code: CodeUnavailable, msg: op + " unavailable", err: err}
}

var (
	// ErrSessionExpired signals a browse or draft action with no matching
	// live session; the caller asks the user to restart the flow.
	ErrSessionExpired = &Error{code: CodeSessionExpired, msg: "session expired"}
	// ErrNotFound signals a missing listing or an out-of-range page.
	ErrNotFound = &Error{code: CodeNotFound, msg: "not found"}
	// ErrNotPending signals a moderation decision on a listing that is no
	// longer pending (already decided or deleted concurrently).
	ErrNotPending = &Error{code: CodeNotFound, msg: "listing is no longer pending"}
)

// IsValidation reports whether err is a recoverable input error.
func IsValidation(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.code == CodeValidation
}

// CodeOf extracts the domain error code, or empty for foreign errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}
