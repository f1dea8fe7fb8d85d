package settings

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore applies writes immediately. Commit is a no-op.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[changeKey]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[changeKey]string)}
}

func (m *MemoryStore) Get(_ context.Context, section string, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[changeKey{section: section, key: key}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, section string, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[changeKey{section: section, key: key}] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, section string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, changeKey{section: section, key: key})
	return nil
}

func (m *MemoryStore) Commit(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
