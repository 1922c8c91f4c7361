package workflow

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/vinzlac/mcp-server-brave-test/internal/activities"
)

// Register adds the query workflow and its activities to w.
func Register(w worker.Registry, completions *activities.CompletionActivities, toolActs *activities.ToolActivities) {
	w.RegisterWorkflowWithOptions(QueryWorkflow, workflow.RegisterOptions{Name: QueryWorkflowName})
	w.RegisterActivityWithOptions(completions.Complete, activity.RegisterOptions{Name: ActivityComplete})
	w.RegisterActivityWithOptions(toolActs.DescribeTools, activity.RegisterOptions{Name: ActivityDescribeTools})
	w.RegisterActivityWithOptions(toolActs.InvokeTool, activity.RegisterOptions{Name: ActivityInvokeTool})
}
