// Package config loads the process configuration once at startup. Values
// come from an optional .env file and from the environment, with the
// environment taking precedence. Business logic receives the resulting
// Config; nothing below cmd/ reads the environment directly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// DefaultEnvFile is the dotenv file read when no other path is given.
const DefaultEnvFile = ".env"

// Configuration keys. Each key is also the name of the environment variable
// that sets it.
const (
	KeyAnthropicAPIKey   = "anthropic_api_key"
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyBraveAPIKey       = "brave_search_api_key"
	KeyOpenWeatherAPIKey = "openweather_api_key"
	KeyLLMProvider       = "llm_provider"
	KeyLLMModel          = "llm_model"
	KeyLLMMaxTokens      = "llm_max_tokens"
	KeyCompletionTimeout = "completion_timeout"
	KeyMaxRounds         = "agent_max_rounds"
	KeyHistoryMaxTurns   = "history_max_turns"
	KeyToolTimeout       = "tool_timeout"
	KeyStartupTimeout    = "startup_timeout"
	KeyHTTPTimeout       = "http_timeout"
	KeySearchEndpoint    = "brave_search_endpoint"
	KeySearchCount       = "brave_search_count"
	KeyWeatherEndpoint   = "openweather_endpoint"
	KeyRedisAddr         = "redis_addr"
	KeyRedisPassword     = "redis_password"
	KeyRedisDB           = "redis_db"
	KeyHistoryTTL        = "history_ttl"
	KeyTaskQueue         = "temporal_task_queue"
	KeyLogLevel          = "log_level"
)

// Credential names a secret that some component cannot run without.
type Credential string

const (
	CredentialCompletion Credential = "completion"
	CredentialSearch     Credential = "search"
	CredentialWeather    Credential = "weather"
)

// Config holds all process configuration.
type Config struct {
	LLM      LLMConfig
	Search   SearchConfig
	Weather  WeatherConfig
	Agent    AgentConfig
	Redis    RedisConfig
	Temporal TemporalConfig
	LogLevel string
}

// LLMConfig configures the completion endpoint.
type LLMConfig struct {
	Provider        string
	Model           string
	MaxTokens       int
	Timeout         time.Duration
	AnthropicAPIKey string
	OpenAIAPIKey    string
}

// APIKey returns the key of the configured provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == models.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

// ModelConfig returns the request-level model parameters.
func (c LLMConfig) ModelConfig() models.ModelConfig {
	return models.ModelConfig{
		Provider:  c.Provider,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
	}
}

// SearchConfig configures the Brave search provider.
type SearchConfig struct {
	APIKey   string
	Endpoint string
	Count    int
	Timeout  time.Duration
}

// WeatherConfig configures the OpenWeatherMap provider.
type WeatherConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// AgentConfig bounds the orchestration loop and the tool transport.
type AgentConfig struct {
	// MaxRounds is the maximum number of completion rounds per user query.
	MaxRounds int
	// HistoryMaxTurns caps the user turns replayed to the model (0 = all).
	HistoryMaxTurns int
	// ToolTimeout bounds a single tool call.
	ToolTimeout time.Duration
	// StartupTimeout bounds the tool server launch and initial tool listing.
	StartupTimeout time.Duration
}

// RedisConfig enables persistent session history when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// TemporalConfig configures durable execution.
type TemporalConfig struct {
	TaskQueue string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLLMProvider, models.ProviderAnthropic)
	v.SetDefault(KeyLLMModel, "")
	v.SetDefault(KeyLLMMaxTokens, models.DefaultMaxTokens)
	v.SetDefault(KeyCompletionTimeout, 60*time.Second)
	v.SetDefault(KeyMaxRounds, 2)
	v.SetDefault(KeyHistoryMaxTurns, 20)
	v.SetDefault(KeyToolTimeout, 60*time.Second)
	v.SetDefault(KeyStartupTimeout, 10*time.Second)
	v.SetDefault(KeyHTTPTimeout, 15*time.Second)
	v.SetDefault(KeySearchEndpoint, "https://api.search.brave.com/res/v1/web/search")
	v.SetDefault(KeySearchCount, 5)
	v.SetDefault(KeyWeatherEndpoint, "https://api.openweathermap.org/data/2.5")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyHistoryTTL, 24*time.Hour)
	v.SetDefault(KeyTaskQueue, "mcp-agent")
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads envFile (if it exists) and the environment. A missing envFile
// is not an error; an unreadable or malformed one is.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString(KeyLLMProvider)),
			Model:           v.GetString(KeyLLMModel),
			MaxTokens:       v.GetInt(KeyLLMMaxTokens),
			Timeout:         v.GetDuration(KeyCompletionTimeout),
			AnthropicAPIKey: v.GetString(KeyAnthropicAPIKey),
			OpenAIAPIKey:    v.GetString(KeyOpenAIAPIKey),
		},
		Search: SearchConfig{
			APIKey:   v.GetString(KeyBraveAPIKey),
			Endpoint: v.GetString(KeySearchEndpoint),
			Count:    v.GetInt(KeySearchCount),
			Timeout:  v.GetDuration(KeyHTTPTimeout),
		},
		Weather: WeatherConfig{
			APIKey:   v.GetString(KeyOpenWeatherAPIKey),
			Endpoint: v.GetString(KeyWeatherEndpoint),
			Timeout:  v.GetDuration(KeyHTTPTimeout),
		},
		Agent: AgentConfig{
			MaxRounds:       v.GetInt(KeyMaxRounds),
			HistoryMaxTurns: v.GetInt(KeyHistoryMaxTurns),
			ToolTimeout:     v.GetDuration(KeyToolTimeout),
			StartupTimeout:  v.GetDuration(KeyStartupTimeout),
		},
		Redis: RedisConfig{
			Addr:     v.GetString(KeyRedisAddr),
			Password: v.GetString(KeyRedisPassword),
			DB:       v.GetInt(KeyRedisDB),
			TTL:      v.GetDuration(KeyHistoryTTL),
		},
		Temporal: TemporalConfig{
			TaskQueue: v.GetString(KeyTaskQueue),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModelFor(cfg.LLM.Provider)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultModelFor(provider string) string {
	if provider == models.ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return models.DefaultModel
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case models.ProviderAnthropic, models.ProviderOpenAI:
	default:
		return models.NewConfigurationError(fmt.Sprintf("unsupported %s %q (supported: anthropic, openai)",
			strings.ToUpper(KeyLLMProvider), c.LLM.Provider))
	}
	if c.Agent.MaxRounds < 1 {
		return models.NewConfigurationError(fmt.Sprintf("%s must be at least 1, got %d",
			strings.ToUpper(KeyMaxRounds), c.Agent.MaxRounds))
	}
	if c.LLM.MaxTokens < 1 {
		return models.NewConfigurationError(fmt.Sprintf("%s must be positive, got %d",
			strings.ToUpper(KeyLLMMaxTokens), c.LLM.MaxTokens))
	}
	return nil
}

// Require checks that every listed credential is present. It is called once
// by each binary for the credentials its components need.
func (c *Config) Require(creds ...Credential) error {
	var missing []string
	for _, cred := range creds {
		switch cred {
		case CredentialCompletion:
			if c.LLM.APIKey() == "" {
				if c.LLM.Provider == models.ProviderOpenAI {
					missing = append(missing, strings.ToUpper(KeyOpenAIAPIKey))
				} else {
					missing = append(missing, strings.ToUpper(KeyAnthropicAPIKey))
				}
			}
		case CredentialSearch:
			if c.Search.APIKey == "" {
				missing = append(missing, strings.ToUpper(KeyBraveAPIKey))
			}
		case CredentialWeather:
			if c.Weather.APIKey == "" {
				missing = append(missing, strings.ToUpper(KeyOpenWeatherAPIKey))
			}
		}
	}
	if len(missing) > 0 {
		return models.NewConfigurationError(fmt.Sprintf("%s is not set", strings.Join(missing, ", ")))
	}
	return nil
}
