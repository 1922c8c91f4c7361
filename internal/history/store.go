// Package history stores the conversation of a session between queries.
package history

import (
	"context"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// Store persists the committed messages of each session. A session that was
// never written loads as an empty history.
//
// Implementations:
//   - InMemoryStore: process-local, the default
//   - RedisStore: survives restarts; selected when REDIS_ADDR is set
type Store interface {
	// Load returns the session's messages in commit order.
	Load(ctx context.Context, sessionID string) ([]models.Message, error)

	// Append commits messages to the end of the session. Callers append only
	// the messages of a successful run.
	Append(ctx context.Context, sessionID string, msgs ...models.Message) error

	// Clear forgets the session.
	Clear(ctx context.Context, sessionID string) error
}
