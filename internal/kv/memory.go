package kv

import "sync"

// Memory is the in-process fallback medium. It lives as long as its owner
// and is lost when the process exits.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty fallback medium
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove deletes key
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// UsedBytes returns the total size of all keys and values
func (m *Memory) UsedBytes() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for k, v := range m.data {
		n += int64(len(k) + len(v))
	}
	return n, nil
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
