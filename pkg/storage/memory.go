package storage

import (
	"context"
	"sync"
)

// Memory is a Medium that lives only as long as the process. A positive
// Quota caps the total number of value bytes held, mimicking the size limit
// of browser storage.
type Memory struct {
	Quota int

	mu     sync.RWMutex
	values map[string][]byte
	size   int
}

func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values == nil {
		m.values = map[string][]byte{}
	}
	size := m.size - len(m.values[key]) + len(value)
	if m.Quota > 0 && size > m.Quota {
		return ErrQuotaExceeded
	}
	m.values[key] = append([]byte(nil), value...)
	m.size = size
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.size -= len(m.values[key])
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
