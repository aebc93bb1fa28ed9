package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type sessionEntry struct {
	s       repository.Session
	expires time.Time
}

// SessionStore is a process-local session store for development and tests.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]sessionEntry{}, now: time.Now}
}

func (m *SessionStore) Save(_ context.Context, s repository.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = sessionEntry{s: s, expires: m.now().Add(ttl)}
	return nil
}

func (m *SessionStore) Load(_ context.Context, id string) (*repository.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, id)
		return nil, repository.ErrNotFound
	}
	s := e.s
	return &s, nil
}

func (m *SessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
