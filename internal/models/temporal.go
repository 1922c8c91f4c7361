package models

import (
	"errors"

	"go.temporal.io/sdk/temporal"
)

// ToApplicationError converts an AgentError into a Temporal application
// error whose type is the error kind, so the kind survives the activity
// boundary. Non-retryable errors stop Temporal's retry policy immediately.
// Errors outside the taxonomy are returned unchanged.
func ToApplicationError(err error) error {
	var agentErr *AgentError
	if !errors.As(err, &agentErr) {
		return err
	}
	message := agentErr.Message
	if agentErr.Cause != nil {
		message += ": " + agentErr.Cause.Error()
	}
	if agentErr.Retryable {
		return temporal.NewApplicationError(message, agentErr.Kind.String(), agentErr.Tool)
	}
	return temporal.NewNonRetryableApplicationError(message, agentErr.Kind.String(), nil, agentErr.Tool)
}

// FromActivityError recovers an AgentError from an error returned by
// workflow.ExecuteActivity. Errors that carry no known kind are reported as
// the given fallback kind.
func FromActivityError(err error, fallback ErrorKind) *AgentError {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if kind, ok := ParseErrorKind(appErr.Type()); ok {
			var tool string
			if appErr.HasDetails() {
				_ = appErr.Details(&tool)
			}
			return &AgentError{
				Kind:      kind,
				Message:   appErr.Message(),
				Tool:      tool,
				Retryable: !appErr.NonRetryable(),
			}
		}
	}
	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &AgentError{Kind: fallback, Message: "timed out", Retryable: true, Cause: err}
	}
	return &AgentError{Kind: fallback, Message: "activity failed", Cause: err}
}
