package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/store"
)

// Ensure MockCloudStore implements store.CloudStore interface
var _ store.CloudStore = (*MockCloudStore)(nil)

// MockCloudStore implements store.CloudStore for testing. Without function
// fields it behaves as an in-memory cloud keyed by profile.
type MockCloudStore struct {
	ReadProfileFn   func(ctx context.Context, profileID string) ([]domain.VocabEntry, error)
	UpsertProfileFn func(ctx context.Context, profileID string, entries []domain.VocabEntry) error

	mu       sync.Mutex
	profiles map[string][]domain.VocabEntry
	uploads  int
}

// ReadProfile implements store.CloudStore.
func (m *MockCloudStore) ReadProfile(ctx context.Context, profileID string) ([]domain.VocabEntry, error) {
	if m.ReadProfileFn != nil {
		return m.ReadProfileFn(ctx, profileID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.VocabEntry(nil), m.profiles[profileID]...), nil
}

// UpsertProfile implements store.CloudStore.
func (m *MockCloudStore) UpsertProfile(ctx context.Context, profileID string, entries []domain.VocabEntry) error {
	m.mu.Lock()
	m.uploads++
	m.mu.Unlock()
	if m.UpsertProfileFn != nil {
		return m.UpsertProfileFn(ctx, profileID, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profiles == nil {
		m.profiles = make(map[string][]domain.VocabEntry)
	}
	m.profiles[profileID] = append([]domain.VocabEntry(nil), entries...)
	return nil
}

// Uploads returns how many times UpsertProfile was called.
func (m *MockCloudStore) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}
