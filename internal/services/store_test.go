package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// memStore is an in-memory database.Store used by the service tests
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memStore) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) IncrCounter(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var value int64
	if data, ok := m.data[key]; ok {
		if err := json.Unmarshal(data, &value); err != nil {
			return 0, err
		}
	}
	value++
	data, _ := json.Marshal(value)
	m.data[key] = data
	return value, nil
}

func (m *memStore) GetCounter(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return 0, nil
	}
	var value int64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// setRaw plants raw bytes under a key, for corrupt-state tests
func (m *memStore) setRaw(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}
