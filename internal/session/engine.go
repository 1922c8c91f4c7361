package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
	"github.com/vinzlac/mcp-server-brave-test/internal/workflow"
)

// Request is one query against a session's (trimmed) history.
type Request struct {
	SessionID string
	Query     string
	History   []models.Message
}

// Engine runs one query to completion.
type Engine interface {
	Run(ctx context.Context, req Request) (orchestrator.Outcome, error)
}

// LocalEngine runs the orchestrator in-process.
type LocalEngine struct {
	orchestrator      *orchestrator.Orchestrator
	client            llm.LLMClient
	invoker           orchestrator.ToolInvoker
	specs             []tools.ToolSpec
	completionTimeout time.Duration
}

// NewLocalEngine creates an in-process engine. specs are offered to the
// model on every round.
func NewLocalEngine(o *orchestrator.Orchestrator, client llm.LLMClient, invoker orchestrator.ToolInvoker, specs []tools.ToolSpec, completionTimeout time.Duration) *LocalEngine {
	return &LocalEngine{
		orchestrator:      o,
		client:            client,
		invoker:           invoker,
		specs:             specs,
		completionTimeout: completionTimeout,
	}
}

// Run implements Engine.
func (e *LocalEngine) Run(ctx context.Context, req Request) (orchestrator.Outcome, error) {
	rt := orchestrator.LocalRuntime(ctx, e.client, e.invoker, e.completionTimeout)
	return e.orchestrator.Run(rt, req.History, e.specs, req.Query)
}

// DurableEngine runs each query as a QueryWorkflow on a Temporal worker.
// The worker owns the tool server connection and the completion client.
type DurableEngine struct {
	client    client.Client
	taskQueue string
	template  workflow.QueryInput
}

// NewDurableEngine creates an engine that starts workflows on taskQueue.
// template supplies everything except the session, query and history.
func NewDurableEngine(c client.Client, taskQueue string, template workflow.QueryInput) *DurableEngine {
	return &DurableEngine{client: c, taskQueue: taskQueue, template: template}
}

// Run implements Engine. Domain failures reported by the workflow come back
// as AgentErrors of the same kind.
func (e *DurableEngine) Run(ctx context.Context, req Request) (orchestrator.Outcome, error) {
	input := e.template
	input.SessionID = req.SessionID
	input.Query = req.Query
	input.History = req.History

	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("query-%s-%s", req.SessionID, uuid.NewString()),
		TaskQueue: e.taskQueue,
	}
	run, err := e.client.ExecuteWorkflow(ctx, opts, workflow.QueryWorkflowName, input)
	if err != nil {
		return orchestrator.Outcome{}, classifyStartError(err)
	}

	var result workflow.QueryResult
	if err := run.Get(ctx, &result); err != nil {
		return orchestrator.Outcome{}, models.NewUpstreamError("query workflow failed", false, err)
	}
	out := orchestrator.Outcome{
		Answer:    result.Answer,
		Path:      result.Path,
		Rounds:    result.Rounds,
		ToolCalls: result.ToolCalls,
		Messages:  result.Messages,
		Trace:     result.Trace,
	}
	return out, result.Err()
}

// classifyStartError maps Temporal frontend errors onto the error taxonomy.
func classifyStartError(err error) *models.AgentError {
	var notFound *serviceerror.NamespaceNotFound
	if errors.As(err, &notFound) {
		return models.NewConnectionError("Temporal namespace not found", err)
	}
	var unavailable *serviceerror.Unavailable
	if errors.As(err, &unavailable) {
		return models.NewConnectionError("Temporal frontend unavailable", err)
	}
	return models.NewUpstreamError("failed to start query workflow", true, err)
}
