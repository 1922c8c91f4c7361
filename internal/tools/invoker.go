package tools

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// Transport executes a tool by name.
type Transport interface {
	CallTool(ctx context.Context, name string, args map[string]any) (models.ToolResult, error)
}

// CallFunc performs one tool call without any fallback.
type CallFunc func(ctx context.Context, call models.ToolCall) (models.ToolResult, error)

// FallbackFunc recovers from a failed primary call. call is the failed
// request and cause its error; primary performs further calls on the same
// transport. A returned error is terminal.
type FallbackFunc func(ctx context.Context, call models.ToolCall, cause error, primary CallFunc) (models.ToolResult, error)

// Tool call outcomes reported to the Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeDegraded = "degraded"
	OutcomeUnknown  = "unknown_tool"
)

// Recorder observes tool calls. metrics.Metrics implements it.
type Recorder interface {
	ObserveToolCall(tool, outcome string)
	ObserveFallback(tool string)
}

// Invoker validates tool calls against the registry, dispatches them to the
// transport and applies per-tool fallbacks.
type Invoker struct {
	registry  *Registry
	transport Transport
	fallbacks map[string]FallbackFunc
	logger    zerolog.Logger
	recorder  Recorder
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithFallback installs fb for failures of tool.
func WithFallback(tool string, fb FallbackFunc) InvokerOption {
	return func(i *Invoker) { i.fallbacks[tool] = fb }
}

// WithLogger sets the invoker's logger.
func WithLogger(logger zerolog.Logger) InvokerOption {
	return func(i *Invoker) { i.logger = logger }
}

// WithRecorder reports every call outcome to r.
func WithRecorder(r Recorder) InvokerOption {
	return func(i *Invoker) { i.recorder = r }
}

// NewInvoker creates an invoker over a loaded registry.
func NewInvoker(registry *Registry, transport Transport, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		registry:  registry,
		transport: transport,
		fallbacks: make(map[string]FallbackFunc),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Registry returns the invoker's registry.
func (i *Invoker) Registry() *Registry {
	return i.registry
}

// Invoke runs one tool call. Unknown tools fail with UnknownToolError and
// never reach the transport or a fallback. Any other failure goes to the
// tool's fallback when one is installed; the fallback's result is marked
// Degraded and only its own failure is returned, as ToolExecutionError.
func (i *Invoker) Invoke(ctx context.Context, call models.ToolCall) (models.ToolResult, error) {
	if _, ok := i.registry.Lookup(call.Name); !ok {
		i.observe(call.Name, OutcomeUnknown)
		return models.ToolResult{}, models.NewUnknownToolError(call.Name)
	}
	logger := i.logger.With().Str("tool", call.Name).Str("call_id", call.ID).Logger()

	result, err := i.call(ctx, call)
	if err == nil {
		i.observe(call.Name, OutcomeOK)
		return result, nil
	}

	fb, ok := i.fallbacks[call.Name]
	if !ok {
		i.observe(call.Name, OutcomeError)
		logger.Warn().Err(err).Msg("tool call failed")
		return models.ToolResult{}, models.NewToolExecutionError(call.Name, err)
	}

	logger.Warn().Err(err).Msg("tool call failed, using fallback")
	if i.recorder != nil {
		i.recorder.ObserveFallback(call.Name)
	}
	result, fbErr := fb(ctx, call, err, i.call)
	if fbErr != nil {
		i.observe(call.Name, OutcomeError)
		logger.Error().Err(fbErr).Msg("fallback failed")
		return models.ToolResult{}, models.NewToolExecutionError(call.Name, errors.Join(err, fbErr))
	}
	result.Degraded = true
	result.IsError = false
	i.observe(call.Name, OutcomeDegraded)
	return result, nil
}

// call validates and dispatches without fallback. A result flagged isError
// by the tool is returned as a RemoteError.
func (i *Invoker) call(ctx context.Context, call models.ToolCall) (models.ToolResult, error) {
	if err := i.registry.Validate(call); err != nil {
		return models.ToolResult{}, err
	}
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	result, err := i.transport.CallTool(ctx, call.Name, args)
	if err != nil {
		return models.ToolResult{}, err
	}
	if result.IsError {
		return models.ToolResult{}, &RemoteError{Tool: call.Name, Text: result.Text()}
	}
	return result, nil
}

func (i *Invoker) observe(tool, outcome string) {
	if i.recorder != nil {
		i.recorder.ObserveToolCall(tool, outcome)
	}
}
