package tools

import (
	"errors"
	"fmt"
)

// TransientError indicates a temporary failure that may succeed on retry.
// Examples: network timeout, tool call deadline, upstream 503.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error: %v", e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Temporary marks the error as retryable for models.NewToolExecutionError.
func (e *TransientError) Temporary() bool {
	return true
}

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(cause error) *TransientError {
	return &TransientError{Cause: cause}
}

// ValidationError indicates arguments that won't succeed on retry.
// Examples: missing required argument, invalid argument type.
type ValidationError struct {
	Tool    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationErrorf creates a validation error with formatting.
func NewValidationErrorf(tool, format string, args ...any) *ValidationError {
	return &ValidationError{Tool: tool, Message: fmt.Sprintf(format, args...)}
}

// RemoteError is a failure reported by the tool itself through an isError
// result, as opposed to a transport failure.
type RemoteError struct {
	Tool string
	Text string
}

func (e *RemoteError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("tool %s reported an error", e.Tool)
	}
	return fmt.Sprintf("tool %s reported an error: %s", e.Tool, e.Text)
}

// IsTransientError checks if an error is transient (retryable).
func IsTransientError(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}

// IsValidationError checks if an error is a validation error (non-retryable).
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
