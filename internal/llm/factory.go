package llm

import (
	"fmt"

	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// Provider names as used in metrics and error messages.
const (
	ProviderNameAnthropic = models.ProviderAnthropic
	ProviderNameOpenAI    = models.ProviderOpenAI
)

// NewLLMClient creates the client for the configured provider.
func NewLLMClient(cfg config.LLMConfig) (LLMClient, error) {
	switch cfg.Provider {
	case models.ProviderAnthropic, "":
		return NewAnthropicClient(cfg.AnthropicAPIKey), nil
	case models.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey), nil
	default:
		return nil, models.NewConfigurationError(fmt.Sprintf("unsupported LLM provider: %s (supported: anthropic, openai)", cfg.Provider))
	}
}
