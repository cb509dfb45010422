// Package errors provides structured error types for arbor.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, TUI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed imports, bad config)
//   - NOT_FOUND: Unknown node or document
//   - PROTECTED_NODE: Mutation rejected because it targets the root
//   - STORE_*: Persistence failures
//   - INTERNAL: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "node %d not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, jsonErr, "decode tree")
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeValidation    Code = "VALIDATION"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Tree mutation errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeProtectedNode Code = "PROTECTED_NODE"

	// Storage errors
	ErrCodeStore            Code = "STORE_ERROR"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

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

// Validation reports a malformed import. The whole import is aborted.
func Validation(format string, args ...any) *Error {
	return New(ErrCodeValidation, format, args...)
}

// NotFound reports an unknown node id.
func NotFound(id int) *Error {
	return New(ErrCodeNotFound, "node %d not found", id)
}

// ProtectedNode reports an attempt to delete the root.
func ProtectedNode(id int) *Error {
	return New(ErrCodeProtectedNode, "node %d is the root and cannot be deleted", id)
}

// DocumentNotFound reports an unknown stored document.
func DocumentNotFound(id string) *Error {
	return New(ErrCodeDocumentNotFound, "document %q not found", id)
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
