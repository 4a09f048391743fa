package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Used for tests and the memory backend.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte

	// FailWrites makes Set and Delete return the given error.
	FailWrites error
}

var _ KVStore = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.items, key)
	return nil
}

// SetFailWrites toggles write failures under the lock.
func (m *MemoryKV) SetFailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWrites = err
}

func (m *MemoryKV) Close() error { return nil }
