package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_TextSkipsNonTextBlocks(t *testing.T) {
	msg := Message{
		Role: RoleAssistant,
		Content: []ContentBlock{
			TextBlock("Let me check that"),
			ToolUseBlock(ToolCall{ID: "toolu_1", Name: "search", Arguments: map[string]any{"query": "go"}}),
			TextBlock("Done."),
		},
	}

	assert.Equal(t, "Let me check that\nDone.", msg.Text())
	assert.True(t, msg.HasToolUse())
	assert.False(t, UserText("hi").HasToolUse())
}

func TestToolResultBlock_CarriesCallID(t *testing.T) {
	result := ToolResult{Content: []ContentBlock{TextBlock("sunny")}, IsError: true}
	block := ToolResultBlock("toolu_9", result)

	assert.Equal(t, ContentTypeToolResult, block.Type)
	assert.Equal(t, "toolu_9", block.ToolUseID)
	assert.True(t, block.IsError)
	assert.Equal(t, "sunny", block.Content[0].Text)
}

func TestToolResult_EmptyIsValid(t *testing.T) {
	assert.Equal(t, "", ToolResult{}.Text())
}

func TestContentBlock_ToolCallJSON(t *testing.T) {
	call := ToolCall{ID: "toolu_1", Name: "weather", Arguments: map[string]any{"city": "Paris"}}
	raw, err := json.Marshal(Message{Role: RoleAssistant, Content: []ContentBlock{ToolUseBlock(call)}})
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, call, decoded.Content[0].ToolCall())
}
