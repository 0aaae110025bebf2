package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Nothing survives a restart.
type MemoryKV struct {
	values map[string][]byte
	mu     sync.RWMutex
	closed bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	value, ok := m.values[key]
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Close marks the store closed.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
