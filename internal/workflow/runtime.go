package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/vinzlac/mcp-server-brave-test/internal/activities"
	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// Activity names as registered by the worker (struct method names).
const (
	ActivityComplete      = "Complete"
	ActivityDescribeTools = "DescribeTools"
	ActivityInvokeTool    = "InvokeTool"
)

const (
	defaultCompletionTimeout = 2 * time.Minute
	defaultToolTimeout       = 5 * time.Minute
)

// activityRuntime implements orchestrator.Runtime with activities.
type activityRuntime struct {
	ctx           workflow.Context
	completionCtx workflow.Context
	toolCtx       workflow.Context
}

func newActivityRuntime(ctx workflow.Context, completionTimeout, toolTimeout time.Duration) *activityRuntime {
	if completionTimeout <= 0 {
		completionTimeout = defaultCompletionTimeout
	}
	if toolTimeout <= 0 {
		toolTimeout = defaultToolTimeout
	}
	completionOpts := workflow.ActivityOptions{
		StartToCloseTimeout: completionTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	// The invoker already runs the fallback; a retry would repeat it.
	toolOpts := workflow.ActivityOptions{
		StartToCloseTimeout: toolTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	return &activityRuntime{
		ctx:           ctx,
		completionCtx: workflow.WithActivityOptions(ctx, completionOpts),
		toolCtx:       workflow.WithActivityOptions(ctx, toolOpts),
	}
}

func describeActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
}

func (rt *activityRuntime) Complete(request llm.LLMRequest) (llm.LLMResponse, error) {
	var out activities.CompletionOutput
	err := workflow.ExecuteActivity(rt.completionCtx, ActivityComplete, activities.CompletionInput{Request: request}).
		Get(rt.ctx, &out)
	if err != nil {
		return llm.LLMResponse{}, models.FromActivityError(err, models.ErrorKindUpstream)
	}
	return out.Response, nil
}

func (rt *activityRuntime) Invoke(call models.ToolCall) (models.ToolResult, error) {
	var out activities.ToolActivityOutput
	err := workflow.ExecuteActivity(rt.toolCtx, ActivityInvokeTool, activities.ToolActivityInput{ToolCall: call}).
		Get(rt.ctx, &out)
	if err != nil {
		return models.ToolResult{}, models.FromActivityError(err, models.ErrorKindToolExecution)
	}
	return out.Result, nil
}
