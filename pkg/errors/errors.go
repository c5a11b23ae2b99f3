// Package errors provides structured error types for the trackplan engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure mode of the placement engine maps to exactly one code:
//   - INVALID_SPEC: input does not match the wire specification grammar
//   - INVALID_NAME: malformed bus notation
//   - DEPENDENCY_CYCLE: an ordering edge closes a cycle
//   - BOUNDARY_CONSTRAINT: a shared wire is not on a graph boundary
//   - UNSATISFIABLE: a group cannot be placed without moving a locked wire
//   - INVALID_TECH: malformed technology table
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidName) {
//	    // handle the malformed name
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidTech, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specification errors
	ErrCodeInvalidSpec Code = "INVALID_SPEC"
	ErrCodeInvalidName Code = "INVALID_NAME"

	// Constraint errors
	ErrCodeDependencyCycle    Code = "DEPENDENCY_CYCLE"
	ErrCodeBoundaryConstraint Code = "BOUNDARY_CONSTRAINT"
	ErrCodeUnsatisfiable      Code = "UNSATISFIABLE"

	// Collaborator errors
	ErrCodeInvalidTech  Code = "INVALID_TECH"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
