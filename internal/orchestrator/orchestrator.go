// Package orchestrator runs one user query through the fast path or the
// bounded completion/tool loop and returns the final answer.
//
// The state machine is written against Runtime, so the same code runs
// in-process (LocalRuntime) and inside a Temporal workflow, where Complete
// and Invoke are activities.
package orchestrator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/intent"
	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// DefaultMaxRounds is one completion plus one follow-up after tool results.
const DefaultMaxRounds = 2

// FastPathCallID prefixes the call ID of routed tool calls.
const FastPathCallID = "fastpath-"

// Runtime performs the two external operations of a run. Implementations
// carry their own context and timeouts.
type Runtime interface {
	Complete(request llm.LLMRequest) (llm.LLMResponse, error)
	Invoke(call models.ToolCall) (models.ToolResult, error)
}

// Options configures an Orchestrator.
type Options struct {
	// MaxRounds bounds the completion calls per query. Values below 1 use
	// DefaultMaxRounds.
	MaxRounds int
	Model     models.ModelConfig
	System    string
	// Classifier routes fast-path queries. Nil disables the fast path.
	Classifier intent.Classifier
	Logger     zerolog.Logger
}

// Orchestrator is stateless between runs and safe to reuse.
type Orchestrator struct {
	maxRounds  int
	model      models.ModelConfig
	system     string
	classifier intent.Classifier
	logger     zerolog.Logger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.MaxRounds < 1 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Model.Model == "" {
		opts.Model = models.DefaultModelConfig()
	}
	return &Orchestrator{
		maxRounds:  opts.MaxRounds,
		model:      opts.Model,
		system:     opts.System,
		classifier: opts.Classifier,
		logger:     opts.Logger,
	}
}

// Outcome is the result of one run.
type Outcome struct {
	// Answer is the captured text blocks joined with newlines. On failure it
	// holds whatever text was captured before the error.
	Answer string `json:"answer"`
	Path   Path   `json:"path"`
	// Rounds counts completion calls.
	Rounds int `json:"rounds"`
	// ToolCalls counts tool invocations, including a fast-path attempt.
	ToolCalls int `json:"tool_calls"`
	// Messages are the new history entries to commit: the user message and
	// everything the run appended after it. Empty on failure.
	Messages []models.Message `json:"messages,omitempty"`
	// Trace lists the states visited in order.
	Trace []State `json:"trace"`
}

// State returns the final state of the run.
func (o Outcome) State() State {
	if len(o.Trace) == 0 {
		return StateStart
	}
	return o.Trace[len(o.Trace)-1]
}

// run holds the mutable state of one query. It is never shared.
type run struct {
	*Orchestrator
	rt      Runtime
	logger  zerolog.Logger
	specs   []tools.ToolSpec
	convo   []models.Message
	added   []models.Message
	texts   []string
	outcome Outcome
}

// Run answers query given the session's committed history. history is not
// modified. On error the returned Outcome carries the trace and any partial
// answer, but no messages to commit.
func (o *Orchestrator) Run(rt Runtime, history []models.Message, specs []tools.ToolSpec, query string) (Outcome, error) {
	r := &run{
		Orchestrator: o,
		rt:           rt,
		logger:       o.logger.With().Str("component", "orchestrator").Logger(),
		specs:        specs,
	}
	r.enter(StateStart)

	if answer, ok := r.tryFastPath(query); ok {
		r.outcome.Path = PathFast
		r.outcome.Answer = answer
		r.outcome.Messages = []models.Message{models.UserText(query), models.AssistantText(answer)}
		r.enter(StateDone)
		return r.outcome, nil
	}

	r.outcome.Path = PathGeneral
	user := models.UserText(query)
	r.convo = make([]models.Message, 0, len(history)+1+2*o.maxRounds)
	r.convo = append(r.convo, history...)
	r.appendMessage(user)

	if err := r.loop(); err != nil {
		return r.fail(err)
	}
	r.outcome.Answer = strings.Join(r.texts, "\n")
	r.outcome.Messages = r.added
	r.enter(StateDone)
	r.logger.Debug().Int("rounds", r.outcome.Rounds).Int("tool_calls", r.outcome.ToolCalls).Msg("query answered")
	return r.outcome, nil
}

func (r *run) enter(s State) {
	r.outcome.Trace = append(r.outcome.Trace, s)
}

func (r *run) appendMessage(msg models.Message) {
	r.convo = append(r.convo, msg)
	r.added = append(r.added, msg)
}

// tryFastPath calls the routed tool directly. Any failure or an empty result
// is logged and reported as not handled.
func (r *run) tryFastPath(query string) (string, bool) {
	if r.classifier == nil {
		return "", false
	}
	cls := r.classifier.Classify(query)
	if !cls.IsFastPath() {
		return "", false
	}

	call := models.ToolCall{
		ID:        FastPathCallID + string(cls.Category),
		Name:      cls.Tool,
		Arguments: cls.Args,
	}
	logger := r.logger.With().Str("category", string(cls.Category)).Str("tool", call.Name).Logger()
	logger.Info().Interface("args", call.Arguments).Msg("fast path")

	r.enter(StateHandlingToolCall)
	r.outcome.ToolCalls++
	result, err := r.rt.Invoke(call)
	if err != nil {
		logger.Warn().Err(err).Msg("fast path failed, falling back to completion")
		return "", false
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		logger.Warn().Msg("fast path returned no text, falling back to completion")
		return "", false
	}
	if result.Degraded {
		logger.Info().Msg("fast path answered from fallback")
	}
	return text, true
}

// loop runs completion rounds until a response requests no tools or the
// round budget is spent.
func (r *run) loop() error {
	for round := 1; round <= r.maxRounds; round++ {
		last := round == r.maxRounds
		calls, err := r.completeRound(round, last)
		if err != nil {
			return err
		}
		if len(calls) == 0 {
			break
		}
		if err := r.dispatchCalls(calls); err != nil {
			return err
		}
	}
	if len(r.texts) == 0 {
		return models.NewUpstreamError("completion returned no text", false, nil)
	}
	return nil
}

// completeRound sends the conversation and records the response. Text is
// captured in block order before any tool call is returned for dispatch.
// In the last round tool requests are dropped from the recorded message,
// since no tool_result could follow them.
func (r *run) completeRound(round int, last bool) ([]models.ToolCall, error) {
	r.enter(StateAwaitingCompletion)
	r.outcome.Rounds = round
	logger := r.logger.With().Int("round", round).Logger()

	resp, err := r.rt.Complete(llm.LLMRequest{
		Messages:    r.convo,
		ModelConfig: r.model,
		ToolSpecs:   r.specs,
		System:      r.system,
	})
	if err != nil {
		return nil, err
	}

	var (
		kept  []models.ContentBlock
		calls []models.ToolCall
	)
	for _, b := range resp.Content {
		switch b.Type {
		case models.ContentTypeText:
			if b.Text == "" {
				continue
			}
			r.texts = append(r.texts, b.Text)
			kept = append(kept, b)
		case models.ContentTypeToolUse:
			if last {
				logger.Warn().Str("tool", b.Name).Msg("round budget exhausted, ignoring tool request")
				continue
			}
			kept = append(kept, b)
			calls = append(calls, b.ToolCall())
		}
	}
	logger.Debug().
		Str("finish_reason", string(resp.FinishReason)).
		Int("tool_calls", len(calls)).
		Msg("completion received")

	if len(kept) > 0 {
		r.appendMessage(models.Message{Role: models.RoleAssistant, Content: kept})
	}
	return calls, nil
}

// dispatchCalls invokes the requested tools one at a time and appends their
// results as a single user message. The first failure ends the run.
func (r *run) dispatchCalls(calls []models.ToolCall) error {
	r.enter(StateHandlingToolCall)
	results := make([]models.ContentBlock, 0, len(calls))
	for _, call := range calls {
		r.outcome.ToolCalls++
		r.logger.Info().Str("tool", call.Name).Str("call_id", call.ID).Interface("args", call.Arguments).Msg("calling tool")
		result, err := r.rt.Invoke(call)
		if err != nil {
			return err
		}
		results = append(results, models.ToolResultBlock(call.ID, result))
	}
	r.appendMessage(models.Message{Role: models.RoleUser, Content: results})
	return nil
}

func (r *run) fail(err error) (Outcome, error) {
	r.outcome.Answer = strings.Join(r.texts, "\n")
	r.outcome.Messages = nil
	r.enter(StateFailed)
	event := r.logger.Error().Err(err).Int("rounds", r.outcome.Rounds)
	if r.outcome.Answer != "" {
		event = event.Str("partial_answer", r.outcome.Answer)
	}
	event.Msg("query failed")
	return r.outcome, fmt.Errorf("query failed: %w", err)
}
