package llm

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaiopt "github.com/openai/openai-go/v3/option"

	"github.com/vinzlac/mcp-server-brave-test/internal/config"
)

// AvailableModel is a model usable as LLM_MODEL.
type AvailableModel struct {
	Provider    string
	ID          string
	DisplayName string // Anthropic provides this; empty for OpenAI
}

// ListModels queries the list-models API of every provider that has a key
// configured and returns a merged list, Anthropic first then by ID. It
// fails only when every configured provider fails.
func ListModels(ctx context.Context, cfg config.LLMConfig) ([]AvailableModel, error) {
	var (
		all  []AvailableModel
		errs []error
	)
	if cfg.AnthropicAPIKey != "" {
		ms, err := fetchAnthropicModels(ctx, cfg.AnthropicAPIKey)
		all = append(all, ms...)
		errs = append(errs, err)
	}
	if cfg.OpenAIAPIKey != "" {
		ms, err := fetchOpenAIModels(ctx, cfg.OpenAIAPIKey)
		all = append(all, ms...)
		errs = append(errs, err)
	}
	if len(all) == 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Provider != all[j].Provider {
			return all[i].Provider < all[j].Provider // "anthropic" < "openai"
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// fetchOpenAIModels lists OpenAI models and keeps the chat models that can
// drive tool calls.
func fetchOpenAIModels(ctx context.Context, apiKey string, opts ...openaiopt.RequestOption) ([]AvailableModel, error) {
	opts = append([]openaiopt.RequestOption{openaiopt.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []AvailableModel
	for _, m := range page.Data {
		if isOpenAIChatModel(m.ID) {
			result = append(result, AvailableModel{Provider: ProviderNameOpenAI, ID: m.ID})
		}
	}
	return result, nil
}

var (
	openAIChatPrefixes = []string{"gpt-", "o1", "o3", "o4", "chatgpt-"}

	// Audio, image, realtime and completion-only families plus aliases and
	// specialized variants that cannot serve as LLM_MODEL.
	openAIExcluded = []string{
		"-tts", "-realtime", "-transcribe", "-instruct", "-preview", "-audio",
		"-search", "-deep-research", "-chat-latest", "-16k",
		"gpt-audio", "gpt-image", "chatgpt-image",
	}

	// Dated snapshots: "-2024-05-13" or legacy "-0613".
	datedSnapshot = regexp.MustCompile(`-20\d\d-|-\d{4,}$`)
)

func isOpenAIChatModel(id string) bool {
	if strings.HasPrefix(id, "ft:") || datedSnapshot.MatchString(id) {
		return false
	}
	for _, sub := range openAIExcluded {
		if strings.Contains(id, sub) {
			return false
		}
	}
	for _, prefix := range openAIChatPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// fetchAnthropicModels pages through the Anthropic model list. Every entry
// is a Claude chat model.
func fetchAnthropicModels(ctx context.Context, apiKey string, opts ...anthropicopt.RequestOption) ([]AvailableModel, error) {
	opts = append([]anthropicopt.RequestOption{anthropicopt.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)

	iter := client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})

	var result []AvailableModel
	for iter.Next() {
		m := iter.Current()
		result = append(result, AvailableModel{
			Provider:    ProviderNameAnthropic,
			ID:          m.ID,
			DisplayName: m.DisplayName,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
