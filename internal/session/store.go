package session

import (
	"context"
	"sync"
)

const (
	KeyUser  = "current_user"
	KeyToken = "auth_token"
)

// Store is the durable key → JSON string map backing the session across restarts.
// Read reports ok=false for a missing key.
type Store interface {
	Save(ctx context.Context, key, value string) error
	Read(ctx context.Context, key string) (string, bool, error)
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore keeps entries for the lifetime of the process only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
