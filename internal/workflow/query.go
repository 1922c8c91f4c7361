// Package workflow contains the Temporal workflow that runs one user query
// durably. The orchestration logic is shared with the in-process engine;
// only the Runtime differs.
package workflow

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.temporal.io/sdk/workflow"

	"github.com/vinzlac/mcp-server-brave-test/internal/activities"
	"github.com/vinzlac/mcp-server-brave-test/internal/intent"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// QueryWorkflowName is the registered workflow type.
const QueryWorkflowName = "QueryWorkflow"

// QueryInput is the input of QueryWorkflow.
type QueryInput struct {
	SessionID string             `json:"session_id"`
	Query     string             `json:"query"`
	History   []models.Message   `json:"history,omitempty"`
	Model     models.ModelConfig `json:"model"`
	MaxRounds int                `json:"max_rounds"`
	System    string             `json:"system,omitempty"`
	// FastPath enables intent routing before the first completion.
	FastPath bool `json:"fast_path"`
	// ToolSpecs are the descriptors offered to the model. When empty the
	// workflow asks the worker with DescribeTools.
	ToolSpecs []tools.ToolSpec `json:"tool_specs,omitempty"`

	CompletionTimeout time.Duration `json:"completion_timeout,omitempty"`
	ToolTimeout       time.Duration `json:"tool_timeout,omitempty"`
}

// QueryResult is the output of QueryWorkflow. Domain failures (unknown
// tool, upstream error, ...) complete the workflow normally with ErrorKind
// set, so the caller sees the same taxonomy as an in-process run.
type QueryResult struct {
	Answer    string               `json:"answer"`
	Path      orchestrator.Path    `json:"path"`
	Rounds    int                  `json:"rounds"`
	ToolCalls int                  `json:"tool_calls"`
	Messages  []models.Message     `json:"messages,omitempty"`
	Trace     []orchestrator.State `json:"trace"`

	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Failed reports whether the run ended in the Failed state.
func (r QueryResult) Failed() bool {
	return r.ErrorKind != ""
}

// Err rebuilds the AgentError carried by a failed result.
func (r QueryResult) Err() error {
	if !r.Failed() {
		return nil
	}
	kind, ok := models.ParseErrorKind(r.ErrorKind)
	if !ok {
		kind = models.ErrorKindUpstream
	}
	return &models.AgentError{Kind: kind, Message: r.ErrorMessage}
}

// QueryWorkflow answers one query and returns the messages to commit.
func QueryWorkflow(ctx workflow.Context, input QueryInput) (QueryResult, error) {
	logger := replaySafe(ctx, log.Logger.With().
		Str("workflow", QueryWorkflowName).
		Str("session_id", input.SessionID).
		Logger())

	specs := input.ToolSpecs
	if len(specs) == 0 {
		var described activities.DescribeToolsOutput
		describeCtx := workflow.WithActivityOptions(ctx, describeActivityOptions())
		if err := workflow.ExecuteActivity(describeCtx, ActivityDescribeTools).Get(ctx, &described); err != nil {
			agentErr := models.FromActivityError(err, models.ErrorKindConnection)
			logger.Error().Err(agentErr).Msg("failed to describe tools")
			return failedResult(orchestrator.Outcome{Trace: []orchestrator.State{orchestrator.StateFailed}}, agentErr), nil
		}
		specs = described.ToolSpecs
	}

	opts := orchestrator.Options{
		MaxRounds: input.MaxRounds,
		Model:     input.Model,
		System:    input.System,
		Logger:    logger,
	}
	if input.FastPath {
		opts.Classifier = intent.DefaultClassifier()
	}

	rt := newActivityRuntime(ctx, input.CompletionTimeout, input.ToolTimeout)
	out, err := orchestrator.New(opts).Run(rt, input.History, specs, input.Query)
	if err != nil {
		return failedResult(out, err), nil
	}
	return QueryResult{
		Answer:    out.Answer,
		Path:      out.Path,
		Rounds:    out.Rounds,
		ToolCalls: out.ToolCalls,
		Messages:  out.Messages,
		Trace:     out.Trace,
	}, nil
}

func failedResult(out orchestrator.Outcome, err error) QueryResult {
	result := QueryResult{
		Answer:       out.Answer,
		Path:         out.Path,
		Rounds:       out.Rounds,
		ToolCalls:    out.ToolCalls,
		Trace:        out.Trace,
		ErrorKind:    models.ErrorKindUpstream.String(),
		ErrorMessage: err.Error(),
	}
	if kind, ok := models.KindOf(err); ok {
		result.ErrorKind = kind.String()
	}
	return result
}

// replaySafe drops log events while the workflow replays history, so each
// line is written once per real execution.
func replaySafe(ctx workflow.Context, logger zerolog.Logger) zerolog.Logger {
	return logger.Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		if workflow.IsReplaying(ctx) {
			e.Discard()
		}
	}))
}
