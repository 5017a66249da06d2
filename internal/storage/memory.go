package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory хранилище в памяти для тестов
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// NewMemory создаёт пустое хранилище в памяти
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]json.RawMessage)}
}

// LoadAll возвращает копию коллекции
func (m *Memory) LoadAll(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(m.data[collection]))
	for k, v := range m.data[collection] {
		out[k] = v
	}
	return out, nil
}

// SaveAll заменяет коллекцию копией переданных записей
func (m *Memory) SaveAll(_ context.Context, collection string, records map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make(map[string]json.RawMessage, len(records))
	for k, v := range records {
		stored[k] = v
	}
	m.data[collection] = stored
	return nil
}
