// Package apperr defines the failure taxonomy surfaced by the service layer.
// Every authorization or validation failure carries one of four machine
// codes; the transport layer maps them to status codes.
package apperr

import "errors"

// Code is a machine-readable failure class.
type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeBadInput        Code = "BAD_INPUT"
)

// Error pairs a failure code with a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Unauthenticated reports a request with no resolvable caller.
func Unauthenticated(msg string) error {
	return &Error{Code: CodeUnauthenticated, Message: msg}
}

// Forbidden reports a resolved caller lacking permission, a tenant
// mismatch, or a cross-entity organization mismatch.
func Forbidden(msg string) error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// BadInput reports a missing or malformed request parameter.
func BadInput(msg string) error {
	return &Error{Code: CodeBadInput, Message: msg}
}

// CodeOf extracts the failure code from err, if it carries one.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
