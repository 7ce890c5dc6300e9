// Package errors provides structured error types for feyndraw.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the codec, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - VALIDATION_FAILED: A diagram mutation would break an invariant
//   - PARSE_FAILED: Text did not match the accepted TikZ subset
//   - NOT_FOUND / FILE_NOT_FOUND: Missing elements or files
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "edge %d: width must be positive", id)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Reject the mutation
//	}
//
// Parse failures carry the 1-based line number of the first offending line:
//
//	err := errors.NewParse(3, "unrecognized statement")
//	errors.LineOf(err) // 3
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Diagram and codec errors
	ErrCodeValidation Code = "VALIDATION_FAILED"
	ErrCodeParse      Code = "PARSE_FAILED"

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
// It unwraps the error chain looking for an *Error with a matching code. A
// *ParseError anywhere in the chain matches ErrCodeParse.
func Is(err error, code Code) bool {
	var pe *ParseError
	if code == ErrCodeParse && errors.As(err, &pe) {
		return true
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available. A
// *ParseError takes precedence over the code of its cause.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var pe *ParseError
	if errors.As(err, &pe) {
		return ErrCodeParse
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.userMessage()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseError reports text that does not belong to the accepted grammar.
// A parse that returns a ParseError produces no diagram at all.
type ParseError struct {
	Line    int    // 1-based line number, 0 when unknown
	Message string // What was wrong with the line
	Cause   error  // Underlying error (optional)
}

// NewParse creates a ParseError for the given line.
func NewParse(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeParse, e.userMessage())
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Code returns the error code for this error type.
func (e *ParseError) Code() Code {
	return ErrCodeParse
}

func (e *ParseError) userMessage() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// LineOf returns the line number carried by a ParseError in err's chain,
// or 0.
func LineOf(err error) int {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}
