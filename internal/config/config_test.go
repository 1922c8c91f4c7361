package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "BRAVE_SEARCH_API_KEY", "OPENWEATHER_API_KEY",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "AGENT_MAX_ROUNDS", "REDIS_ADDR",
		"TOOL_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, models.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, models.DefaultModel, cfg.LLM.Model)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 2, cfg.Agent.MaxRounds)
	assert.Equal(t, 60*time.Second, cfg.Agent.ToolTimeout)
	assert.Equal(t, 5, cfg.Search.Count)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "ANTHROPIC_API_KEY=sk-file\nBRAVE_SEARCH_API_KEY=brave-file\nAGENT_MAX_ROUNDS=3\nTOOL_TIMEOUT=5s\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.LLM.AnthropicAPIKey)
	assert.Equal(t, "brave-file", cfg.Search.APIKey)
	assert.Equal(t, 3, cfg.Agent.MaxRounds)
	assert.Equal(t, 5*time.Second, cfg.Agent.ToolTimeout)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "ANTHROPIC_API_KEY=sk-file\n")
	t.Setenv("ANTHROPIC_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.AnthropicAPIKey)
}

func TestLoad_OpenAIProviderDefaultsModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "OpenAI")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "parrot")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindConfiguration))
}

func TestLoad_RejectsZeroRounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_MAX_ROUNDS", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindConfiguration))
}

func TestRequire_MissingCredentials(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Require(CredentialCompletion, CredentialSearch, CredentialWeather)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindConfiguration))
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	assert.Contains(t, err.Error(), "BRAVE_SEARCH_API_KEY")
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestRequire_CompletionKeyFollowsProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Require(CredentialCompletion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Require(CredentialCompletion))
}
