package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/vinzlac/mcp-server-brave-test/internal/activities"
	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// Stub activity functions. OnActivity mocks override them, but they must be
// registered so the test env recognises the activity names.
func stubComplete(_ context.Context, _ activities.CompletionInput) (activities.CompletionOutput, error) {
	panic("stub: should be mocked")
}

func stubDescribeTools(_ context.Context) (activities.DescribeToolsOutput, error) {
	panic("stub: should be mocked")
}

func stubInvokeTool(_ context.Context, _ activities.ToolActivityInput) (activities.ToolActivityOutput, error) {
	panic("stub: should be mocked")
}

type QueryWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func TestQueryWorkflowSuite(t *testing.T) {
	suite.Run(t, new(QueryWorkflowTestSuite))
}

func (s *QueryWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivityWithOptions(stubComplete, activity.RegisterOptions{Name: ActivityComplete})
	s.env.RegisterActivityWithOptions(stubDescribeTools, activity.RegisterOptions{Name: ActivityDescribeTools})
	s.env.RegisterActivityWithOptions(stubInvokeTool, activity.RegisterOptions{Name: ActivityInvokeTool})
}

func (s *QueryWorkflowTestSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func testSpecs() []tools.ToolSpec {
	return []tools.ToolSpec{{Name: "search"}, {Name: "weather"}}
}

func testInput(query string) QueryInput {
	return QueryInput{
		SessionID: "session-1",
		Query:     query,
		Model:     models.DefaultModelConfig(),
		MaxRounds: 2,
		FastPath:  true,
		ToolSpecs: testSpecs(),
	}
}

func completion(blocks ...models.ContentBlock) activities.CompletionOutput {
	return activities.CompletionOutput{Response: llm.LLMResponse{Content: blocks}}
}

func (s *QueryWorkflowTestSuite) result() QueryResult {
	require.True(s.T(), s.env.IsWorkflowCompleted())
	require.NoError(s.T(), s.env.GetWorkflowError())
	var result QueryResult
	require.NoError(s.T(), s.env.GetWorkflowResult(&result))
	return result
}

func (s *QueryWorkflowTestSuite) TestGeneralPlainText() {
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.Anything).
		Return(completion(models.TextBlock("Paris.")), nil).Once()

	s.env.ExecuteWorkflow(QueryWorkflow, testInput("What is the capital of France?"))

	result := s.result()
	assert.False(s.T(), result.Failed())
	assert.Equal(s.T(), "Paris.", result.Answer)
	assert.Equal(s.T(), orchestrator.PathGeneral, result.Path)
	assert.Equal(s.T(), []orchestrator.State{
		orchestrator.StateStart, orchestrator.StateAwaitingCompletion, orchestrator.StateDone,
	}, result.Trace)
	assert.Len(s.T(), result.Messages, 2)
}

func (s *QueryWorkflowTestSuite) TestFastPathSkipsCompletion() {
	s.env.OnActivity(ActivityInvokeTool, mock.Anything, mock.MatchedBy(func(in activities.ToolActivityInput) bool {
		return in.ToolCall.Name == "weather" && in.ToolCall.Arguments["postalCode"] == "77500"
	})).Return(activities.ToolActivityOutput{Result: models.TextResult("Météo pour Chelles (77500)")}, nil).Once()

	s.env.ExecuteWorkflow(QueryWorkflow, testInput("Quelle est la météo à Chelles ?"))

	result := s.result()
	assert.Equal(s.T(), orchestrator.PathFast, result.Path)
	assert.Equal(s.T(), "Météo pour Chelles (77500)", result.Answer)
	assert.Equal(s.T(), 0, result.Rounds)
}

func (s *QueryWorkflowTestSuite) TestToolRound() {
	call := models.ToolCall{ID: "toolu_1", Name: "search", Arguments: map[string]any{"query": "go"}}
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.Anything).
		Return(completion(models.TextBlock("Let me check that"), models.ToolUseBlock(call)), nil).Once()
	s.env.OnActivity(ActivityInvokeTool, mock.Anything, mock.Anything).
		Return(activities.ToolActivityOutput{Result: models.TextResult(`{"results":[]}`)}, nil).Once()
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.MatchedBy(func(in activities.CompletionInput) bool {
		return len(in.Request.Messages) == 3
	})).Return(completion(models.TextBlock("Nothing found.")), nil).Once()

	s.env.ExecuteWorkflow(QueryWorkflow, testInput("search go"))

	result := s.result()
	assert.Equal(s.T(), "Let me check that\nNothing found.", result.Answer)
	assert.Equal(s.T(), 2, result.Rounds)
	assert.Equal(s.T(), 1, result.ToolCalls)
	assert.Len(s.T(), result.Messages, 4)
}

func (s *QueryWorkflowTestSuite) TestUnknownToolReportsKind() {
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.Anything).
		Return(completion(
			models.TextBlock("Let me check that"),
			models.ToolUseBlock(models.ToolCall{ID: "toolu_1", Name: "teleport"}),
		), nil).Once()
	s.env.OnActivity(ActivityInvokeTool, mock.Anything, mock.Anything).
		Return(activities.ToolActivityOutput{}, models.ToApplicationError(models.NewUnknownToolError("teleport"))).Once()

	s.env.ExecuteWorkflow(QueryWorkflow, testInput("beam me up"))

	result := s.result()
	require.True(s.T(), result.Failed())
	assert.Equal(s.T(), models.ErrorKindUnknownTool.String(), result.ErrorKind)
	assert.Equal(s.T(), "Let me check that", result.Answer)
	assert.Empty(s.T(), result.Messages)
	assert.True(s.T(), models.IsKind(result.Err(), models.ErrorKindUnknownTool))
}

func (s *QueryWorkflowTestSuite) TestCompletionFailureIsUpstream() {
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.Anything).
		Return(activities.CompletionOutput{}, models.ToApplicationError(
			models.NewUpstreamError("anthropic client error (401)", false, errors.New("unauthorized")))).Once()

	s.env.ExecuteWorkflow(QueryWorkflow, testInput("hello"))

	result := s.result()
	assert.Equal(s.T(), models.ErrorKindUpstream.String(), result.ErrorKind)
	assert.Contains(s.T(), result.ErrorMessage, "401")
}

func (s *QueryWorkflowTestSuite) TestDescribesToolsWhenNoneGiven() {
	s.env.OnActivity(ActivityDescribeTools, mock.Anything).
		Return(activities.DescribeToolsOutput{ToolSpecs: testSpecs()}, nil).Once()
	s.env.OnActivity(ActivityComplete, mock.Anything, mock.MatchedBy(func(in activities.CompletionInput) bool {
		return len(in.Request.ToolSpecs) == 2
	})).Return(completion(models.TextBlock("ok")), nil).Once()

	input := testInput("hello")
	input.ToolSpecs = nil
	s.env.ExecuteWorkflow(QueryWorkflow, input)

	assert.Equal(s.T(), "ok", s.result().Answer)
}

func TestQueryResult_ErrOnSuccess(t *testing.T) {
	assert.NoError(t, QueryResult{Answer: "ok"}.Err())
}
