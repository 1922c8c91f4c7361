package llm

import (
	"context"
	"time"
)

// Recorder observes completion calls. metrics.Metrics implements it.
type Recorder interface {
	ObserveCompletion(provider, outcome string, elapsed time.Duration, promptTokens, completionTokens int)
}

// InstrumentedClient reports every call of the wrapped client.
type InstrumentedClient struct {
	next     LLMClient
	provider string
	recorder Recorder
}

// NewInstrumentedClient wraps next. A nil recorder returns next unchanged.
func NewInstrumentedClient(next LLMClient, provider string, recorder Recorder) LLMClient {
	if recorder == nil {
		return next
	}
	return &InstrumentedClient{next: next, provider: provider, recorder: recorder}
}

// Call implements LLMClient.
func (c *InstrumentedClient) Call(ctx context.Context, request LLMRequest) (LLMResponse, error) {
	start := time.Now()
	resp, err := c.next.Call(ctx, request)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.recorder.ObserveCompletion(c.provider, outcome, time.Since(start),
		resp.TokenUsage.PromptTokens, resp.TokenUsage.CompletionTokens)
	return resp, err
}
