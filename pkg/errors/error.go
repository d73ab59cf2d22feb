// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors
//   - Configuration errors (100-199): Invalid or missing configuration, credentials, versions
//   - Upstream errors (200-299): Exchange transport failures and failed or rejected REST calls
//   - Data errors (300-399): Malformed stream messages and upstream records missing fields
//   - Broadcast errors (400-499): Event encoding and observer delivery failures
//   - Lifecycle errors (500-599): Background task and shutdown failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeConfigurationMissing, "api credentials are not configured")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeDataIntegrity, "trade %d has no price", id)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeUpstreamRequestFailed, "failed to fetch account", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeMalformedMessage) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsUpstreamFailure reports whether err is a failed or rejected exchange REST call.
func IsUpstreamFailure(err error) bool {
	code := GetCode(err)

	return code == ErrCodeUpstreamRequestFailed || code == ErrCodeUpstreamRejected
}

// IsRecordSkip reports whether err only invalidates a single upstream record or message.
// Callers drop the record and keep processing the rest of the batch.
func IsRecordSkip(err error) bool {
	code := GetCode(err)

	return code == ErrCodeMalformedMessage || code == ErrCodeDataIntegrity
}
