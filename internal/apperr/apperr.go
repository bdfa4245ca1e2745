// Package apperr defines the service-level error taxonomy. Handlers map these
// onto HTTP responses; anything that is not an *Error surfaces as a generic
// internal error with the cause logged server-side only.
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable sub-codes attached to taxonomy errors.
const (
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTokenInvalid    = "TOKEN_INVALID"
	CodeNoToken         = "NO_TOKEN"
	CodeGoogleNotLinked = "GOOGLE_NOT_LINKED"
)

// Error is a classified application error.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCode attaches a machine-readable sub-code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// Wrap attaches a cause for server-side logging. The cause is never sent to
// the client.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func Internal(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: cause}
}

// From classifies err: a wrapped *Error passes through, anything else becomes
// an internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error", err)
}
