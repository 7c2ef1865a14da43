// Package rerrors provides the coded error taxonomy of the wire router.
//
// Codes fall into two groups:
//   - request errors (INVALID_REQUEST and the UNKNOWN_* / OUT_OF_BOUNDS
//     refinements) are reported synchronously and never leave a partial wire
//   - NOT_FOUND marks a deterministic routing failure; retrying without
//     moving a component gives the same answer
//
// Usage:
//
//	err := rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", id)
//	if rerrors.IsInvalidRequest(err) {
//	    // reject the user action
//	}
package rerrors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	// Request validation errors
	ErrCodeInvalidRequest   Code = "INVALID_REQUEST"
	ErrCodeUnknownComponent Code = "UNKNOWN_COMPONENT"
	ErrCodeUnknownTerminal  Code = "UNKNOWN_TERMINAL"
	ErrCodeUnknownWire      Code = "UNKNOWN_WIRE"
	ErrCodeOutOfBounds      Code = "OUT_OF_BOUNDS"

	// Routing outcome
	ErrCodeNotFound Code = "NOT_FOUND"

	// Configuration and persistence
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidRequest reports whether err rejects the request itself rather
// than the routing outcome.
func IsInvalidRequest(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidRequest, ErrCodeUnknownComponent, ErrCodeUnknownTerminal,
		ErrCodeUnknownWire, ErrCodeOutOfBounds:
		return true
	}
	return false
}

// IsNotFound reports whether err is a routing failure.
func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
