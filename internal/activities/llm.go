// Package activities contains the Temporal activities behind the durable
// query workflow. They wrap the completion client and the tool invoker so a
// worker can host them.
package activities

import (
	"context"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// CompletionInput is the input of the Complete activity.
type CompletionInput struct {
	Request llm.LLMRequest `json:"request"`
}

// CompletionOutput is the output of the Complete activity.
type CompletionOutput struct {
	Response llm.LLMResponse `json:"response"`
}

// CompletionActivities contains the completion activity.
type CompletionActivities struct {
	client llm.LLMClient
}

// NewCompletionActivities creates a new CompletionActivities instance.
func NewCompletionActivities(client llm.LLMClient) *CompletionActivities {
	return &CompletionActivities{client: client}
}

// Complete runs one completion round. Errors keep their kind across the
// activity boundary; non-retryable ones stop the retry policy.
func (a *CompletionActivities) Complete(ctx context.Context, input CompletionInput) (CompletionOutput, error) {
	response, err := a.client.Call(ctx, input.Request)
	if err != nil {
		return CompletionOutput{}, models.ToApplicationError(err)
	}
	return CompletionOutput{Response: response}, nil
}
