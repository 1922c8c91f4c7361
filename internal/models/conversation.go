// Package models contains the shared conversation and tool types used by the
// orchestrator, the completion clients and the tool transport.
package models

import "strings"

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentType discriminates the variants of ContentBlock.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeToolUse    ContentType = "tool_use"
	ContentTypeToolResult ContentType = "tool_result"
)

// ContentBlock is a tagged union. Different fields are populated depending
// on Type.
//
// Variant field mapping:
//
//	text:        Text
//	tool_use:    ToolUseID, Name, Arguments
//	tool_result: ToolUseID, Content, IsError
type ContentBlock struct {
	Type ContentType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use / tool_result share the call identifier
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`

	// tool_result
	Content []ContentBlock `json:"content,omitempty"`
	IsError bool           `json:"is_error,omitempty"`
}

// TextBlock creates a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

// ToolUseBlock creates a tool_use block from a parsed call.
func ToolUseBlock(call ToolCall) ContentBlock {
	return ContentBlock{
		Type:      ContentTypeToolUse,
		ToolUseID: call.ID,
		Name:      call.Name,
		Arguments: call.Arguments,
	}
}

// ToolResultBlock wraps a tool result so it can be fed back to the model
// under the id of the tool_use that produced it.
func ToolResultBlock(callID string, result ToolResult) ContentBlock {
	return ContentBlock{
		Type:      ContentTypeToolResult,
		ToolUseID: callID,
		Content:   result.Content,
		IsError:   result.IsError,
	}
}

// ToolCall returns the call carried by a tool_use block.
func (b ContentBlock) ToolCall() ToolCall {
	return ToolCall{ID: b.ToolUseID, Name: b.Name, Arguments: b.Arguments}
}

// Message is one entry of the conversation history.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserText creates a user message with a single text block.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// AssistantText creates an assistant message with a single text block.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{TextBlock(text)}}
}

// Text joins the message's text blocks with newlines.
func (m Message) Text() string {
	return joinText(m.Content)
}

// HasToolUse reports whether the message requests at least one tool call.
func (m Message) HasToolUse() bool {
	for _, b := range m.Content {
		if b.Type == ContentTypeToolUse {
			return true
		}
	}
	return false
}

// ToolCall is a tool invocation request, produced either by the completion
// endpoint or by the intent router's fast path.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the normalized output of a tool call. An empty Content is a
// valid result.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"is_error,omitempty"`

	// Degraded is set when the result was produced by a fallback strategy
	// instead of the requested tool.
	Degraded bool `json:"degraded,omitempty"`
}

// TextResult builds a single-block successful result.
func TextResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{TextBlock(text)}}
}

// Text joins the result's text blocks with newlines.
func (r ToolResult) Text() string {
	return joinText(r.Content)
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonToolCalls FinishReason = "tool_calls"
	FinishReasonLength    FinishReason = "length"
)

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func joinText(blocks []ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == ContentTypeText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
