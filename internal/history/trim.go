package history

import "github.com/vinzlac/mcp-server-brave-test/internal/models"

// IsUserTurn reports whether msg starts a user turn: a user message that
// carries text rather than only tool results.
func IsUserTurn(msg models.Message) bool {
	if msg.Role != models.RoleUser {
		return false
	}
	for _, b := range msg.Content {
		if b.Type == models.ContentTypeToolResult {
			return false
		}
	}
	return true
}

// TurnCount returns the number of user turns in msgs.
func TurnCount(msgs []models.Message) int {
	n := 0
	for _, m := range msgs {
		if IsUserTurn(m) {
			n++
		}
	}
	return n
}

// KeepLastTurns returns the suffix of msgs that starts at the keepN-th user
// turn from the end. Cutting only at turn boundaries keeps every tool_use
// next to its tool_result. keepN <= 0 keeps everything.
func KeepLastTurns(msgs []models.Message, keepN int) []models.Message {
	if keepN <= 0 {
		return msgs
	}
	seen := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if IsUserTurn(msgs[i]) {
			seen++
			if seen == keepN {
				return msgs[i:]
			}
		}
	}
	return msgs
}
