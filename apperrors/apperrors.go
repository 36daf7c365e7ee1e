// Package apperrors provides the domain error taxonomy. Every error that can
// reach an API client carries a machine-readable Code; anything else is
// wrapped as CodeInternal so driver text never leaks.
package apperrors

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnauthenticated: a protected operation was called without a
	// signed-in user in context.
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// CodeInvalidCredentials: sign-in failed. Deliberately covers both
	// unknown email and wrong password.
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"

	// CodeDuplicateEmail: sign-up with an already registered email.
	CodeDuplicateEmail Code = "DUPLICATE_EMAIL"

	// CodeNotFound: the referenced entity does not exist, or the caller is
	// not allowed to see it.
	CodeNotFound Code = "NOT_FOUND"

	// CodeMalformedID: an id could not be parsed into store form.
	CodeMalformedID Code = "MALFORMED_ID"

	// CodeInvalidToken: the session token is malformed, tampered or expired.
	CodeInvalidToken Code = "INVALID_TOKEN"

	// CodeInternal: an unexpected storage or infrastructure fault.
	CodeInternal Code = "INTERNAL"
)

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Extensions exposes the code to the GraphQL response's error extensions,
// which is the field clients branch on.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf extracts the code from err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
