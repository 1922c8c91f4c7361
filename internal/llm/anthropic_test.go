package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

func newAnthropicTestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicClient_TextAndToolUse(t *testing.T) {
	var captured map[string]any
	srv := newAnthropicTestServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-5",
		"content": [
			{"type": "text", "text": "Let me check that"},
			{"type": "tool_use", "id": "toolu_1", "name": "teleport", "input": {"to": "mars"}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 20, "output_tokens": 7}
	}`, &captured)

	client := NewAnthropicClient("sk-ant", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	resp, err := client.Call(context.Background(), LLMRequest{
		Messages:    []models.Message{models.UserText("go to mars")},
		ModelConfig: models.DefaultModelConfig(),
		ToolSpecs: []tools.ToolSpec{{
			Name:        "search",
			Description: "Search the web",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"query": map[string]any{"type": "string"}},
				"required":   []any{"query"},
			},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, models.FinishReasonToolCalls, resp.FinishReason)
	assert.Equal(t, "Let me check that", resp.Message().Text())
	require.Len(t, resp.ToolCalls(), 1)
	assert.Equal(t, models.ToolCall{ID: "toolu_1", Name: "teleport", Arguments: map[string]any{"to": "mars"}}, resp.ToolCalls()[0])
	assert.Equal(t, 27, resp.TokenUsage.TotalTokens)

	assert.Equal(t, models.DefaultModel, captured["model"])
	assert.EqualValues(t, models.DefaultMaxTokens, captured["max_tokens"])
	toolDefs, ok := captured["tools"].([]any)
	require.True(t, ok)
	require.Len(t, toolDefs, 1)
	schema := toolDefs[0].(map[string]any)["input_schema"].(map[string]any)
	assert.Equal(t, []any{"query"}, schema["required"])
}

func TestAnthropicClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newAnthropicTestServer(t, tt.status,
				`{"type":"error","error":{"type":"api_error","message":"nope"}}`, nil)

			client := NewAnthropicClient("sk-ant", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
			_, err := client.Call(context.Background(), LLMRequest{
				Messages:    []models.Message{models.UserText("hi")},
				ModelConfig: models.DefaultModelConfig(),
			})

			var agentErr *models.AgentError
			require.ErrorAs(t, err, &agentErr)
			assert.Equal(t, models.ErrorKindUpstream, agentErr.Kind)
			assert.Equal(t, tt.retryable, agentErr.Retryable)
		})
	}
}

func TestBuildAnthropicMessages_ToolRoundTrip(t *testing.T) {
	history := []models.Message{
		models.UserText("météo à Chelles"),
		{Role: models.RoleAssistant, Content: []models.ContentBlock{
			models.TextBlock(""),
			models.ToolUseBlock(models.ToolCall{ID: "toolu_1", Name: "weather"}),
		}},
		{Role: models.RoleUser, Content: []models.ContentBlock{
			models.ToolResultBlock("toolu_1", models.ToolResult{
				Content: []models.ContentBlock{models.TextBlock("Météo pour Chelles (77500)")},
				IsError: false,
			}),
		}},
	}

	messages := buildAnthropicMessages(history)

	require.Len(t, messages, 3)
	require.Len(t, messages[1].Content, 1, "empty text block is dropped")
	use := messages[1].Content[0].OfToolUse
	require.NotNil(t, use)
	assert.Equal(t, "weather", use.Name)
	assert.Equal(t, map[string]any{}, use.Input)

	result := messages[2].Content[0].OfToolResult
	require.NotNil(t, result)
	assert.Equal(t, "toolu_1", result.ToolUseID)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Météo pour Chelles (77500)", result.Content[0].OfText.Text)
}

func TestBuildAnthropicMessages_SkipsEmptyMessages(t *testing.T) {
	messages := buildAnthropicMessages([]models.Message{
		{Role: models.RoleUser, Content: []models.ContentBlock{models.TextBlock("")}},
		models.UserText("hi"),
	})
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content[0].OfText.Text)
}

func TestDecodeArguments_NonObjectInput(t *testing.T) {
	assert.Equal(t, map[string]any{}, decodeArguments(json.RawMessage(`"string"`)))
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeArguments(json.RawMessage(`{"a":1}`)))
}
