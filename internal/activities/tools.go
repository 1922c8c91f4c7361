package activities

import (
	"context"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// ToolInvoker is satisfied by tools.Invoker.
type ToolInvoker interface {
	Invoke(ctx context.Context, call models.ToolCall) (models.ToolResult, error)
	Registry() *tools.Registry
}

// ToolActivityInput is the input of the InvokeTool activity.
type ToolActivityInput struct {
	ToolCall models.ToolCall `json:"tool_call"`
}

// ToolActivityOutput is the output of the InvokeTool activity.
type ToolActivityOutput struct {
	Result models.ToolResult `json:"result"`
}

// DescribeToolsOutput is the output of the DescribeTools activity.
type DescribeToolsOutput struct {
	ToolSpecs []tools.ToolSpec `json:"tool_specs"`
}

// ToolActivities contains the tool activities. The worker owns the single
// tool server connection; workflows reach it only through these activities.
type ToolActivities struct {
	invoker ToolInvoker
}

// NewToolActivities creates a new ToolActivities instance.
func NewToolActivities(invoker ToolInvoker) *ToolActivities {
	return &ToolActivities{invoker: invoker}
}

// DescribeTools returns the descriptors loaded when the worker connected.
func (a *ToolActivities) DescribeTools(_ context.Context) (DescribeToolsOutput, error) {
	return DescribeToolsOutput{ToolSpecs: a.invoker.Registry().Specs()}, nil
}

// InvokeTool runs one tool call, fallback included. Unknown tools and
// terminal failures come back as typed application errors.
func (a *ToolActivities) InvokeTool(ctx context.Context, input ToolActivityInput) (ToolActivityOutput, error) {
	result, err := a.invoker.Invoke(ctx, input.ToolCall)
	if err != nil {
		return ToolActivityOutput{}, models.ToApplicationError(err)
	}
	return ToolActivityOutput{Result: result}, nil
}
