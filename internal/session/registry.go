// Package session owns the collection of session records: id issuance,
// ownership checks, and per-id serialization of mutations.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/store"
)

// CreateParams holds the metadata for a new session.
type CreateParams struct {
	Owner      string
	Title      string
	Topic      string
	GradeLevel string
	Mode       domain.Mode
	Difficulty domain.Difficulty
	Persona    domain.Persona
}

// Registry manages session records on top of a store.Repository.
// All read-modify-write cycles on a single session id are serialized
// through a per-id lock; different ids never contend.
type Registry struct {
	repo  store.Repository
	locks *keyedMutex
}

// NewRegistry creates a Registry backed by repo.
func NewRegistry(repo store.Repository) *Registry {
	return &Registry{repo: repo, locks: newKeyedMutex()}
}

// Create allocates a fresh id and persists a new session record.
func (r *Registry) Create(ctx context.Context, p CreateParams) (*domain.Session, error) {
	s := &domain.Session{
		ID:         uuid.NewString(),
		Owner:      p.Owner,
		Title:      defaultTitle(p.Title, p.Topic),
		Topic:      p.Topic,
		GradeLevel: p.GradeLevel,
		Mode:       p.Mode,
		Difficulty: p.Difficulty,
		Persona:    p.Persona,
		CreatedAt:  time.Now(),
	}
	if err := r.repo.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// FindForOwner returns the session only when it exists and belongs to
// owner. Both a missing id and someone else's session come back as nil,
// so callers cannot distinguish "not found" from "not yours".
func (r *Registry) FindForOwner(ctx context.Context, id, owner string) (*domain.Session, error) {
	if id == "" || owner == "" {
		return nil, nil
	}
	s, err := r.repo.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s == nil || s.Owner != owner {
		return nil, nil
	}
	return s, nil
}

// DeleteForOwner deletes the session iff it belongs to owner. Returns
// whether a deletion occurred; repeat calls return false.
func (r *Registry) DeleteForOwner(ctx context.Context, id, owner string) (bool, error) {
	if id == "" || owner == "" {
		return false, nil
	}

	unlock := r.locks.lock(id)
	defer unlock()

	s, err := r.repo.GetSession(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}
	if s == nil || s.Owner != owner {
		return false, nil
	}
	deleted, err := r.repo.DeleteSession(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	if deleted {
		r.locks.forget(id)
	}
	return deleted, nil
}

// ListForOwner returns the owner's sessions in the given mode,
// newest-first by creation time.
func (r *Registry) ListForOwner(ctx context.Context, owner string, mode domain.Mode) ([]*domain.Session, error) {
	if owner == "" {
		return nil, nil
	}
	out, err := r.repo.ListSessions(ctx, owner, mode)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// AppendTurn appends one turn to the session's ledger. Unknown ids are a
// silent no-op.
func (r *Registry) AppendTurn(ctx context.Context, id string, role domain.Role, content string) error {
	_, err := r.Mutate(ctx, id, func(s *domain.Session) {
		s.AddTurn(role, content)
	})
	return err
}

// Mutate applies fn to the session under the per-id lock and writes the
// result back. Returns false without calling fn when the id is unknown.
// This is the only way session state is modified after creation, which
// keeps metadata overwrites and turn appends atomic per session.
func (r *Registry) Mutate(ctx context.Context, id string, fn func(*domain.Session)) (bool, error) {
	if id == "" {
		return false, nil
	}

	unlock := r.locks.lock(id)
	defer unlock()

	s, err := r.repo.GetSession(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}
	if s == nil {
		return false, nil
	}

	fn(s)

	if err := r.repo.UpdateSession(ctx, s); err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	return true, nil
}
