package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// OpenAIClient implements LLMClient using OpenAI's Chat Completions API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates an OpenAI client. Extra options are appended after
// the key.
func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Call sends one chat completion request.
func (c *OpenAIClient) Call(ctx context.Context, request LLMRequest) (LLMResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(request.ModelConfig.Model),
		Messages: c.buildMessages(request),
	}
	if request.ModelConfig.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(request.ModelConfig.MaxTokens))
	}
	if request.ModelConfig.Temperature > 0 {
		params.Temperature = openai.Float(request.ModelConfig.Temperature)
	}
	if len(request.ToolSpecs) > 0 {
		params.Tools = c.buildToolDefinitions(request.ToolSpecs)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return LLMResponse{}, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return LLMResponse{}, models.NewUpstreamError("openai returned no choices", true, nil)
	}

	content, finishReason := parseOpenAIChoice(resp.Choices[0])
	return LLMResponse{
		Content:      content,
		FinishReason: finishReason,
		TokenUsage: models.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildMessages converts history to chat messages.
//
// Type mapping:
//   - System → system message
//   - user text blocks → one user message
//   - user tool_result blocks → one tool message each, emitted first so they
//     directly follow the assistant message that requested them
//   - assistant text + tool_use blocks → one assistant message with tool_calls
func (c *OpenAIClient) buildMessages(request LLMRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(request.Messages)+1)
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}

	for _, msg := range request.Messages {
		switch msg.Role {
		case models.RoleUser:
			for _, b := range msg.Content {
				if b.Type == models.ContentTypeToolResult {
					messages = append(messages, openai.ToolMessage(joinResultText(b), b.ToolUseID))
				}
			}
			if text := msg.Text(); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}

		case models.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if text := msg.Text(); text != "" {
				assistant.Content.OfString = openai.String(text)
			}
			for _, b := range msg.Content {
				if b.Type != models.ContentTypeToolUse {
					continue
				}
				args, err := json.Marshal(b.Arguments)
				if err != nil || b.Arguments == nil {
					args = []byte("{}")
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: b.ToolUseID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      b.Name,
							Arguments: string(args),
						},
					},
				})
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}
	return messages
}

func joinResultText(b models.ContentBlock) string {
	text := models.ToolResult{Content: b.Content}.Text()
	if b.IsError && text == "" {
		return "error"
	}
	return text
}

// buildToolDefinitions converts ToolSpecs to function tools. The input
// schema is passed through unchanged.
func (c *OpenAIClient) buildToolDefinitions(specs []tools.ToolSpec) []openai.ChatCompletionToolUnionParam {
	toolDefs := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		params := spec.InputSchema
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		toolDefs = append(toolDefs, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        spec.Name,
			Description: openai.String(spec.Description),
			Parameters:  openai.FunctionParameters(params),
		}))
	}
	return toolDefs
}

// parseOpenAIChoice returns the text (if any) followed by the tool calls.
func parseOpenAIChoice(choice openai.ChatCompletionChoice) ([]models.ContentBlock, models.FinishReason) {
	var content []models.ContentBlock
	if choice.Message.Content != "" {
		content = append(content, models.TextBlock(choice.Message.Content))
	}
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil || args == nil {
			args = map[string]any{}
		}
		content = append(content, models.ToolUseBlock(models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		}))
	}

	finishReason := models.FinishReasonStop
	switch {
	case len(choice.Message.ToolCalls) > 0 || choice.FinishReason == "tool_calls":
		finishReason = models.FinishReasonToolCalls
	case choice.FinishReason == "length":
		finishReason = models.FinishReasonLength
	}
	return content, finishReason
}

// classifyOpenAIError categorizes an OpenAI API error using the HTTP status
// code when available.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode(ProviderNameOpenAI, apiErr.StatusCode, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "rate limit") {
		return classifyByStatusCode(ProviderNameOpenAI, 429, err)
	}
	return classifyTransportError(ProviderNameOpenAI, err)
}
