// Package domainerrors defines the coded error type that crosses the
// service boundary. Services create or wrap errors with a stable machine
// readable code; transports translate the code into their own taxonomy
// (HTTP status, GraphQL error extensions) without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error category.
type Code string

const (
	// CodeValidation marks field-level constraint violations (empty name,
	// username too short).
	CodeValidation Code = "validation"
	// CodeConflict marks uniqueness conflicts (duplicate person name,
	// duplicate username).
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks credential failures (bad login, unverifiable token).
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks operations that require an authenticated caller.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks lookups that must surface as errors. Lookup-style
	// operations represent absence as a null result instead.
	CodeNotFound Code = "not_found"
	// CodeBadRequest marks malformed requests that never reached validation.
	CodeBadRequest Code = "bad_request"
	// CodeInternal marks unexpected failures. Messages for internal errors
	// are never exposed to callers.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and optionally the
// offending arguments for input errors.
type Error struct {
	Code        Code
	Message     string
	InvalidArgs map[string]any
	cause       error
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As but is never rendered to callers.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithArg records an offending argument for diagnostics. Returns the
// receiver for chaining.
func (e *Error) WithArg(name string, value any) *Error {
	if e.InvalidArgs == nil {
		e.InvalidArgs = make(map[string]any)
	}
	e.InvalidArgs[name] = value
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err is (or wraps) a coded error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so unexpected failures never leak details.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto an HTTP status for non-GraphQL surfaces.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeConflict:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
