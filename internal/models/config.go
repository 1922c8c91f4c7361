package models

// Supported completion providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "claude-sonnet-4-5"

// DefaultMaxTokens is the fixed maximum output size of one completion.
const DefaultMaxTokens = 1000

// ModelConfig configures the completion model parameters
type ModelConfig struct {
	Provider    string  `json:"provider"`              // "anthropic" or "openai"
	Model       string  `json:"model"`                 // e.g. "claude-sonnet-4-5", "gpt-4o-mini"
	MaxTokens   int     `json:"max_tokens"`            // Max tokens to generate
	Temperature float64 `json:"temperature,omitempty"` // 0 = provider default
}

// DefaultModelConfig returns the configuration used by the shell.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:  ProviderAnthropic,
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
	}
}
