package models

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes errors so the shell and the workflow layer can decide
// how to surface them.
type ErrorKind int

const (
	ErrorKindConfiguration ErrorKind = iota // Missing credential → abort startup
	ErrorKindConnection                     // Tool transport unreachable or empty → abort startup
	ErrorKindUnknownTool                    // Requested tool not registered → round fails
	ErrorKindToolExecution                  // Tool call (and its fallback) failed → round fails
	ErrorKindUpstream                       // Completion endpoint failed → round fails
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConfiguration:
		return "ConfigurationError"
	case ErrorKindConnection:
		return "ConnectionError"
	case ErrorKindUnknownTool:
		return "UnknownToolError"
	case ErrorKindToolExecution:
		return "ToolExecutionError"
	case ErrorKindUpstream:
		return "UpstreamError"
	default:
		return "UnknownError"
	}
}

// ParseErrorKind is the inverse of ErrorKind.String.
func ParseErrorKind(s string) (ErrorKind, bool) {
	for k := ErrorKindConfiguration; k <= ErrorKindUpstream; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// AgentError is the single error type of the taxonomy. Kind selects the
// category; Cause keeps the underlying error for errors.Is/As.
type AgentError struct {
	Kind      ErrorKind `json:"kind"`
	Retryable bool      `json:"retryable"`
	Message   string    `json:"message"`
	Tool      string    `json:"tool,omitempty"`
	Cause     error     `json:"-"`
}

// Error implements the error interface
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AgentError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(message string) *AgentError {
	return &AgentError{Kind: ErrorKindConfiguration, Message: message}
}

// NewConnectionError creates a fatal tool transport error.
func NewConnectionError(message string, cause error) *AgentError {
	return &AgentError{Kind: ErrorKindConnection, Message: message, Cause: cause}
}

// NewUnknownToolError reports a tool name absent from the registry.
func NewUnknownToolError(tool string) *AgentError {
	return &AgentError{
		Kind:    ErrorKindUnknownTool,
		Message: fmt.Sprintf("unknown tool %q", tool),
		Tool:    tool,
	}
}

// NewToolExecutionError wraps a failed tool call. The error is retryable
// when its cause is.
func NewToolExecutionError(tool string, cause error) *AgentError {
	var retryable interface{ Temporary() bool }
	return &AgentError{
		Kind:      ErrorKindToolExecution,
		Message:   fmt.Sprintf("tool %q failed", tool),
		Tool:      tool,
		Cause:     cause,
		Retryable: errors.As(cause, &retryable) && retryable.Temporary(),
	}
}

// NewUpstreamError wraps a failed completion call.
func NewUpstreamError(message string, retryable bool, cause error) *AgentError {
	return &AgentError{
		Kind:      ErrorKindUpstream,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// KindOf returns the kind of the first AgentError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries an AgentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
