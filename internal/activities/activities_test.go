package activities

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

type stubLLM struct {
	resp llm.LLMResponse
	err  error
}

func (s stubLLM) Call(context.Context, llm.LLMRequest) (llm.LLMResponse, error) {
	return s.resp, s.err
}

type mapTransport map[string]models.ToolResult

func (m mapTransport) CallTool(_ context.Context, name string, _ map[string]any) (models.ToolResult, error) {
	res, ok := m[name]
	if !ok {
		return models.ToolResult{}, errors.New("no such tool")
	}
	return res, nil
}

func newInvoker() *tools.Invoker {
	registry := tools.NewRegistry([]tools.ToolSpec{{Name: "search"}}, zerolog.Nop())
	return tools.NewInvoker(registry, mapTransport{"search": models.TextResult("found")})
}

func TestComplete_ReturnsResponse(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewCompletionActivities(stubLLM{resp: llm.LLMResponse{
		Content: []models.ContentBlock{models.TextBlock("Paris.")},
	}})
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.Complete, CompletionInput{Request: llm.LLMRequest{
		Messages: []models.Message{models.UserText("capital of France?")},
	}})
	require.NoError(t, err)

	var out CompletionOutput
	require.NoError(t, val.Get(&out))
	assert.Equal(t, "Paris.", out.Response.Message().Text())
}

func TestComplete_ErrorKeepsKind(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewCompletionActivities(stubLLM{err: models.NewUpstreamError("anthropic client error (401)", false, nil)})
	env.RegisterActivity(acts)

	_, err := env.ExecuteActivity(acts.Complete, CompletionInput{})
	require.Error(t, err)

	recovered := models.FromActivityError(err, models.ErrorKindToolExecution)
	assert.Equal(t, models.ErrorKindUpstream, recovered.Kind)
	assert.False(t, recovered.Retryable)
}

func TestDescribeTools(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewToolActivities(newInvoker())
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.DescribeTools)
	require.NoError(t, err)

	var out DescribeToolsOutput
	require.NoError(t, val.Get(&out))
	require.Len(t, out.ToolSpecs, 1)
	assert.Equal(t, "search", out.ToolSpecs[0].Name)
}

func TestInvokeTool(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewToolActivities(newInvoker())
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.InvokeTool, ToolActivityInput{
		ToolCall: models.ToolCall{ID: "a", Name: "search", Arguments: map[string]any{"query": "go"}},
	})
	require.NoError(t, err)
	var out ToolActivityOutput
	require.NoError(t, val.Get(&out))
	assert.Equal(t, "found", out.Result.Text())

	_, err = env.ExecuteActivity(acts.InvokeTool, ToolActivityInput{
		ToolCall: models.ToolCall{ID: "b", Name: "teleport"},
	})
	require.Error(t, err)
	recovered := models.FromActivityError(err, models.ErrorKindToolExecution)
	assert.Equal(t, models.ErrorKindUnknownTool, recovered.Kind)
	assert.Equal(t, "teleport", recovered.Tool)
}
