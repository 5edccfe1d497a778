package store

import (
	"context"
	"sync"
)

// MemorySlotStore is an in-process SlotStore. Set FailWrites to simulate a
// full or broken backend.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte

	FailWrites error
}

var _ SlotStore = (*MemorySlotStore)(nil)

// NewMemorySlotStore creates an empty MemorySlotStore.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

// Read implements SlotStore.
func (m *MemorySlotStore) Read(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write implements SlotStore.
func (m *MemorySlotStore) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.slots[name] = append([]byte(nil), data...)
	return nil
}
