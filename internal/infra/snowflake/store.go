package snowflake

import (
	"context"
	"sync"
)

// HandleKey is the fixed storage key for the resolved session; there is
// exactly one handle slot per store.
const HandleKey = "default_session"

// Store caches resolved handles for reuse across reruns. The memory driver
// is the default; a redis-backed driver lives in internal/infra/redis.
type Store interface {
	Get(ctx context.Context, key string) (*Session, bool)
	Put(ctx context.Context, key string, s *Session) error
	Delete(ctx context.Context, key string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Get(_ context.Context, key string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	return s, ok
}

func (m *memoryStore) Put(_ context.Context, key string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}
