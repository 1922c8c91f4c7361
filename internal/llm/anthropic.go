package llm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// AnthropicClient implements LLMClient using the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic client. Extra options are appended
// after the key (tests use them for the base URL and retries).
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *AnthropicClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Call sends one Messages request and returns the content blocks in order.
func (c *AnthropicClient) Call(ctx context.Context, request LLMRequest) (LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.ModelConfig.Model),
		MaxTokens: int64(request.ModelConfig.MaxTokens),
		Messages:  buildAnthropicMessages(request.Messages),
	}
	if request.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: request.System}}
	}
	if request.ModelConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(request.ModelConfig.Temperature)
	}
	if len(request.ToolSpecs) > 0 {
		params.Tools = buildAnthropicTools(request.ToolSpecs)
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return LLMResponse{}, classifyAnthropicError(err)
	}

	content, finishReason := parseAnthropicResponse(response)
	return LLMResponse{
		Content:      content,
		FinishReason: finishReason,
		TokenUsage: models.TokenUsage{
			PromptTokens:     int(response.Usage.InputTokens),
			CompletionTokens: int(response.Usage.OutputTokens),
			TotalTokens:      int(response.Usage.InputTokens + response.Usage.OutputTokens),
		},
	}, nil
}

// buildAnthropicMessages converts history to Anthropic's format. Tool
// calls are assistant content blocks and tool results are user content
// blocks, so the mapping is one message to one message.
func buildAnthropicMessages(history []models.Message) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, msg := range history {
		content := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, b := range msg.Content {
			switch b.Type {
			case models.ContentTypeText:
				// The API rejects empty text blocks.
				if b.Text == "" {
					continue
				}
				content = append(content, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: b.Text},
				})
			case models.ContentTypeToolUse:
				input := b.Arguments
				if input == nil {
					input = map[string]any{}
				}
				content = append(content, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    b.ToolUseID,
						Name:  b.Name,
						Input: input,
					},
				})
			case models.ContentTypeToolResult:
				var parts []anthropic.ToolResultBlockParamContentUnion
				for _, inner := range b.Content {
					if inner.Type == models.ContentTypeText && inner.Text != "" {
						parts = append(parts, anthropic.ToolResultBlockParamContentUnion{
							OfText: &anthropic.TextBlockParam{Text: inner.Text},
						})
					}
				}
				content = append(content, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: b.ToolUseID,
						Content:   parts,
						IsError:   anthropic.Bool(b.IsError),
					},
				})
			}
		}
		if len(content) == 0 {
			continue
		}
		role := anthropic.MessageParamRoleUser
		if msg.Role == models.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		messages = append(messages, anthropic.MessageParam{Role: role, Content: content})
	}
	return messages
}

// buildAnthropicTools converts ToolSpecs to Anthropic tool definitions.
func buildAnthropicTools(specs []tools.ToolSpec) []anthropic.ToolUnionParam {
	toolDefs := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: spec.Properties(),
		}
		if required := spec.Required(); len(required) > 0 {
			inputSchema.Required = required
		}
		toolDefs = append(toolDefs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: inputSchema,
			},
		})
	}
	return toolDefs
}

// parseAnthropicResponse keeps text and tool_use blocks in order.
func parseAnthropicResponse(response *anthropic.Message) ([]models.ContentBlock, models.FinishReason) {
	content := make([]models.ContentBlock, 0, len(response.Content))
	finishReason := models.FinishReasonStop

	for _, block := range response.Content {
		switch block.Type {
		case "text":
			content = append(content, models.TextBlock(block.AsText().Text))
		case "tool_use":
			toolBlock := block.AsToolUse()
			finishReason = models.FinishReasonToolCalls
			content = append(content, models.ToolUseBlock(models.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: decodeArguments(toolBlock.Input),
			}))
		}
	}

	switch response.StopReason {
	case anthropic.StopReasonToolUse:
		finishReason = models.FinishReasonToolCalls
	case anthropic.StopReasonMaxTokens:
		finishReason = models.FinishReasonLength
	}
	return content, finishReason
}

// decodeArguments turns a tool input of any JSON shape into an argument
// map. Non-object input yields an empty map so the schema check reports it.
func decodeArguments(input any) map[string]any {
	data, err := json.Marshal(input)
	if err != nil {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// classifyAnthropicError categorizes an Anthropic API error using the HTTP
// status code when available.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode(ProviderNameAnthropic, apiErr.StatusCode, err)
	}
	return classifyTransportError(ProviderNameAnthropic, err)
}
