// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so that scripts wrapping
// bindoc can tell bad input from a broken file from a bug without
// parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// unknown flags, wrong argument count, malformed documents. The
	// caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a named input file does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal indicates an unexpected error: I/O failures on
	// output, or a document the encoder produced that does not decode.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As, and
// may carry a hint telling the user what to do next.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional remediation line appended to the message.
	Hint string
}

// Error returns the underlying error message, followed by the hint
// after a blank line when one is set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a named input does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
