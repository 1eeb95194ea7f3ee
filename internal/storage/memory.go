package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Tests use it in place of SQLite.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	// Writes counts successful Put calls.
	Writes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.Writes++
	return nil
}
