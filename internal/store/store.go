// Package store provides durable persistence for sessions and LLM events.
package store

import (
	"context"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
)

// Repository is the persistence boundary for session records.
// Updates are last-write-wins; callers that need read-modify-write
// atomicity serialize per session id above this layer.
type Repository interface {
	// CreateSession persists a new session record.
	CreateSession(ctx context.Context, s *domain.Session) error

	// GetSession returns the session with the given id, or nil if absent.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// UpdateSession overwrites the stored record for s.ID.
	// It is a no-op if the id is unknown.
	UpdateSession(ctx context.Context, s *domain.Session) error

	// DeleteSession removes the record. Returns whether a row was deleted.
	DeleteSession(ctx context.Context, id string) (bool, error)

	// ListSessions returns all sessions for an owner in the given mode,
	// newest-first by creation time.
	ListSessions(ctx context.Context, owner string, mode domain.Mode) ([]*domain.Session, error)

	// AppendLLMRequest records a single generation-client call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}

// LLMRequestEventData captures one generation-client call for observability.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CostUSD      float64
	Success      bool
	ErrorMessage string
}
