// Package errors provides structured error types for plotline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly messages for the timeline error queue
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Evaluation failures that halt a pass carry ErrCodeIterationMismatch or
// ErrCodeDanglingDependency. Scene loading failures carry ErrCodeInvalidScene.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "unknown port %d", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing port
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Evaluation errors (fatal to one pass of one timeline item)
	ErrCodeIterationMismatch  Code = "ITERATION_MISMATCH"
	ErrCodeDanglingDependency Code = "DANGLING_DEPENDENCY"

	// Graph mutation errors
	ErrCodeTypeMismatch Code = "TYPE_MISMATCH"
	ErrCodeCycle        Code = "CYCLE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// As finds the first error in err's chain that matches target. It is the
// standard library's errors.As, re-exported so callers need one import.
func As(err error, target any) bool { return errors.As(err, target) }
