package orchestrator

import (
	"context"
	"time"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// ToolInvoker is satisfied by tools.Invoker.
type ToolInvoker interface {
	Invoke(ctx context.Context, call models.ToolCall) (models.ToolResult, error)
}

type localRuntime struct {
	ctx               context.Context
	client            llm.LLMClient
	invoker           ToolInvoker
	completionTimeout time.Duration
}

// LocalRuntime runs completions and tool calls in-process under ctx. Each
// completion is bounded by completionTimeout (0 = no extra bound); tool
// calls are bounded by the transport's per-tool timeout.
func LocalRuntime(ctx context.Context, client llm.LLMClient, invoker ToolInvoker, completionTimeout time.Duration) Runtime {
	return &localRuntime{
		ctx:               ctx,
		client:            client,
		invoker:           invoker,
		completionTimeout: completionTimeout,
	}
}

func (rt *localRuntime) Complete(request llm.LLMRequest) (llm.LLMResponse, error) {
	ctx := rt.ctx
	if rt.completionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.completionTimeout)
		defer cancel()
	}
	return rt.client.Call(ctx, request)
}

func (rt *localRuntime) Invoke(call models.ToolCall) (models.ToolResult, error) {
	return rt.invoker.Invoke(rt.ctx, call)
}
