package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-local map. Used when Redis is
// not configured, and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]Session),
	}
}

func (m *MemoryStore) Get(ctx context.Context, userID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Start(ctx context.Context, userID int64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{Step: StepName}
	m.sessions[userID] = s
	return s, nil
}

func (m *MemoryStore) Advance(ctx context.Context, userID int64, field Field, v Value) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, ErrNotFound
	}
	if err := apply(&s, field, v); err != nil {
		return Session{}, err
	}
	m.sessions[userID] = s
	return s, nil
}

func (m *MemoryStore) Complete(ctx context.Context, userID int64) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	if s.Step != StepComplete {
		return Draft{}, ErrNotComplete
	}

	draft := s.Draft
	m.sessions[userID] = Session{Step: StepIdle}
	return draft, nil
}

func (m *MemoryStore) RestoreFromHistory(ctx context.Context, userID int64, h History) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{
		Step: StepProduct,
		Draft: Draft{
			Name:    h.Name,
			Contact: h.Contact,
		},
	}
	m.sessions[userID] = s
	return s, nil
}

// MemoryHistory keeps last-order history in a process-local map for the
// lifetime of the process.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries map[int64]History
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		entries: make(map[int64]History),
	}
}

func (m *MemoryHistory) Get(ctx context.Context, userID int64) (History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.entries[userID]
	if !ok {
		return History{}, ErrNotFound
	}
	return h, nil
}

func (m *MemoryHistory) Put(ctx context.Context, userID int64, h History) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[userID] = h
	return nil
}
