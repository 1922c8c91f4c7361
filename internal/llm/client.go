// Package llm provides the completion endpoint clients.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// LLMRequest is one completion round: the full history plus the tools the
// model may request.
type LLMRequest struct {
	Messages    []models.Message   `json:"messages"`
	ModelConfig models.ModelConfig `json:"model_config"`
	ToolSpecs   []tools.ToolSpec   `json:"tool_specs,omitempty"`
	System      string             `json:"system,omitempty"`
}

// LLMResponse holds the response content blocks in the order received.
type LLMResponse struct {
	Content      []models.ContentBlock `json:"content"`
	FinishReason models.FinishReason   `json:"finish_reason"`
	TokenUsage   models.TokenUsage     `json:"token_usage"`
}

// Message returns the response as an assistant message.
func (r LLMResponse) Message() models.Message {
	return models.Message{Role: models.RoleAssistant, Content: r.Content}
}

// ToolCalls returns the tool_use blocks in order.
func (r LLMResponse) ToolCalls() []models.ToolCall {
	var calls []models.ToolCall
	for _, b := range r.Content {
		if b.Type == models.ContentTypeToolUse {
			calls = append(calls, b.ToolCall())
		}
	}
	return calls
}

// LLMClient is the interface for completion providers.
type LLMClient interface {
	Call(ctx context.Context, request LLMRequest) (LLMResponse, error)
}

// classifyByStatusCode maps an HTTP status code to an UpstreamError.
// Shared by all provider error classifiers.
//
// Classification:
//   - 429 (Too Many Requests): rate limit, retryable with delay
//   - 408 (Request Timeout), 409 (Conflict): transient, retryable
//   - Other 4xx: fatal client error, non-retryable (e.g., 400, 401, 403, 404)
//   - 5xx: transient server error, retryable
func classifyByStatusCode(provider string, statusCode int, err error) *models.AgentError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return models.NewUpstreamError(fmt.Sprintf("%s rate limit (%d)", provider, statusCode), true, err)
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusConflict:
		return models.NewUpstreamError(fmt.Sprintf("%s retryable error (%d)", provider, statusCode), true, err)
	case statusCode >= 400 && statusCode < 500:
		return models.NewUpstreamError(fmt.Sprintf("%s client error (%d)", provider, statusCode), false, err)
	case statusCode >= 500:
		return models.NewUpstreamError(fmt.Sprintf("%s server error (%d)", provider, statusCode), true, err)
	default:
		return models.NewUpstreamError(fmt.Sprintf("%s unexpected status (%d)", provider, statusCode), true, err)
	}
}

// classifyTransportError handles failures that carry no HTTP status.
func classifyTransportError(provider string, err error) *models.AgentError {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewUpstreamError(provider+" request timed out", true, err)
	}
	if errors.Is(err, context.Canceled) {
		return models.NewUpstreamError(provider+" request canceled", false, err)
	}
	return models.NewUpstreamError(provider+" request failed", true, err)
}
