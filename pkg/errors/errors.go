// Package errors provides structured error types for gtreader.
//
// This package defines error codes and types that enable:
//   - One descriptive error per failed decode, never a partial graph
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Decode failures use the format taxonomy:
//   - COMPRESSION_UNSUPPORTED: a recognized container that is not implemented
//   - DECOMPRESSION_FAILED: malformed zstd frames or blocks
//   - MALFORMED_HEADER: bad magic, version, endianness, or a short buffer
//   - MALFORMED_ADJACENCY: truncated or out-of-range neighbor data
//   - MALFORMED_PROPERTY: unknown map/value tags or truncated payloads
//
// Everything around the decoder uses the general codes:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedHeader, "unsupported version %d", v)
//	if errors.Is(err, errors.ErrCodeMalformedHeader) {
//	    // Handle header error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Decode errors
	ErrCodeCompressionUnsupported Code = "COMPRESSION_UNSUPPORTED"
	ErrCodeDecompressionFailed    Code = "DECOMPRESSION_FAILED"
	ErrCodeMalformedHeader        Code = "MALFORMED_HEADER"
	ErrCodeMalformedAdjacency     Code = "MALFORMED_ADJACENCY"
	ErrCodeMalformedProperty      Code = "MALFORMED_PROPERTY"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeTooLarge      Code = "TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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
		return e.Message
	}
	return err.Error()
}

// IsDecodeError reports whether err carries one of the five decode codes.
func IsDecodeError(err error) bool {
	switch GetCode(err) {
	case ErrCodeCompressionUnsupported, ErrCodeDecompressionFailed,
		ErrCodeMalformedHeader, ErrCodeMalformedAdjacency, ErrCodeMalformedProperty:
		return true
	}
	return false
}
