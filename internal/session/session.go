// Package session ties the conversation history of one user to an engine.
// A Session is the explicit object the shell holds; nothing in the query
// path is global.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/history"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
)

// QueryObserver is implemented by metrics.Metrics.
type QueryObserver interface {
	ObserveQuery(path, outcome string, elapsed time.Duration)
}

// Options configures a Session.
type Options struct {
	// ID resumes an existing session. Empty starts a new one.
	ID string
	// MaxTurns caps the user turns replayed to the model. 0 replays all.
	MaxTurns int
	Observer QueryObserver
	Logger   zerolog.Logger
}

// Session serializes the queries of one conversation.
type Session struct {
	id       string
	store    history.Store
	engine   Engine
	maxTurns int
	observer QueryObserver
	logger   zerolog.Logger
}

// New creates a session over store and engine.
func New(store history.Store, engine Engine, opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:       id,
		store:    store,
		engine:   engine,
		maxTurns: opts.MaxTurns,
		observer: opts.Observer,
		logger:   opts.Logger.With().Str("session_id", id).Logger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Ask answers query. The run's messages are committed only when it
// succeeds, so a failed query leaves the history as it was.
func (s *Session) Ask(ctx context.Context, query string) (orchestrator.Outcome, error) {
	start := time.Now()
	past, err := s.store.Load(ctx, s.id)
	if err != nil {
		return orchestrator.Outcome{}, fmt.Errorf("failed to load history: %w", err)
	}
	past = history.KeepLastTurns(past, s.maxTurns)

	out, runErr := s.engine.Run(ctx, Request{SessionID: s.id, Query: query, History: past})
	s.observe(out, runErr, time.Since(start))
	if runErr != nil {
		return out, runErr
	}

	if err := s.store.Append(ctx, s.id, out.Messages...); err != nil {
		return out, fmt.Errorf("failed to save history: %w", err)
	}
	s.logger.Debug().
		Str("path", string(out.Path)).
		Int("rounds", out.Rounds).
		Int("committed", len(out.Messages)).
		Msg("query committed")
	return out, nil
}

// Reset forgets the conversation.
func (s *Session) Reset(ctx context.Context) error {
	return s.store.Clear(ctx, s.id)
}

// History returns the committed conversation.
func (s *Session) History(ctx context.Context) ([]models.Message, error) {
	return s.store.Load(ctx, s.id)
}

func (s *Session) observe(out orchestrator.Outcome, err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind, ok := models.KindOf(err); ok {
			outcome = kind.String()
		}
	}
	s.observer.ObserveQuery(string(out.Path), outcome, elapsed)
}
