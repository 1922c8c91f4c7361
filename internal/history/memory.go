package history

import (
	"context"
	"sync"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// InMemoryStore is a process-local Store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]models.Message)}
}

// Load returns a copy of the session's messages.
func (s *InMemoryStore) Load(_ context.Context, sessionID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	result := make([]models.Message, len(msgs))
	copy(result, msgs)
	return result, nil
}

// Append adds messages to the end of the session.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, msgs ...models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

// Clear removes the session.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
