package store

import (
	"context"
	"sort"
	"sync"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
)

// MemoryStore is an in-memory Repository used in tests and dev mode.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	events   []LLMRequestEventData
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

// CreateSession persists a new session record.
func (m *MemoryStore) CreateSession(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

// GetSession returns the session with the given id, or nil if absent.
func (m *MemoryStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

// UpdateSession overwrites the stored record for s.ID; no-op on unknown id.
func (m *MemoryStore) UpdateSession(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return nil
	}
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

// DeleteSession removes the record. Returns whether a record was deleted.
func (m *MemoryStore) DeleteSession(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

// ListSessions returns an owner's sessions in the given mode, newest-first.
func (m *MemoryStore) ListSessions(_ context.Context, owner string, mode domain.Mode) ([]*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Session
	for _, s := range m.sessions {
		if s.Owner == owner && s.Mode == mode {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AppendLLMRequest records a generation-client call.
func (m *MemoryStore) AppendLLMRequest(_ context.Context, data LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

// LLMEvents returns a copy of all recorded generation-client events.
func (m *MemoryStore) LLMEvents() []LLMRequestEventData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LLMRequestEventData, len(m.events))
	copy(out, m.events)
	return out
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// cloneSession deep-copies a session so callers never share slices with
// the stored record.
func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.Turns = append([]domain.Turn(nil), s.Turns...)
	c.Steps = append([]string(nil), s.Steps...)
	return &c
}
