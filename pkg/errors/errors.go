// Package errors provides structured error types for seleniumdl.
//
// Every failure on the resolution path carries a machine-readable [Code] so
// callers can tell a flaky network apart from a listing that simply holds no
// usable release:
//   - INVALID_*: malformed input or responses
//   - NOT_FOUND / NO_VERSION: nothing to resolve
//   - NETWORK_ERROR: transport failures and unexpected HTTP statuses
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoVersion, "no minor prefixes in %s", url)
//	if errors.Is(err, errors.ErrCodeNoVersion) {
//	    // fall back
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidListing Code = "INVALID_LISTING"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Nothing to resolve
	ErrCodeNotFound  Code = "NOT_FOUND"
	ErrCodeNoVersion Code = "NO_VERSION"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
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

// Is reports whether any *Error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
