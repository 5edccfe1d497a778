package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
)

// Ensure MockGenerator implements generation.Generator interface
var _ generation.Generator = (*MockGenerator)(nil)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// GenerateFn overrides the default response when set.
	GenerateFn func(ctx context.Context, topic string, count int) ([]domain.Pair, error)

	// Default response values
	Pairs []domain.Pair
	Err   error

	mu     sync.Mutex
	topics []string
	counts []int
}

// Generate implements generation.Generator.
func (m *MockGenerator) Generate(ctx context.Context, topic string, count int) ([]domain.Pair, error) {
	m.mu.Lock()
	m.topics = append(m.topics, topic)
	m.counts = append(m.counts, count)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, topic, count)
	}
	return m.Pairs, m.Err
}

// Calls returns how many times Generate was called.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

// Topics returns the topic of every call in order.
func (m *MockGenerator) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

// Counts returns the requested count of every call in order.
func (m *MockGenerator) Counts() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.counts...)
}

// Reset clears the recorded calls.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = nil
	m.counts = nil
}

// NewMockGeneratorWithPairs creates a MockGenerator that always returns pairs.
func NewMockGeneratorWithPairs(pairs []domain.Pair) *MockGenerator {
	return &MockGenerator{Pairs: pairs}
}

// NewMockGeneratorWithError creates a MockGenerator that always fails with err.
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewScriptedGenerator returns rounds in order, one per call, and empty
// lists once they run out.
func NewScriptedGenerator(rounds ...[]domain.Pair) *MockGenerator {
	m := &MockGenerator{}
	next := 0
	m.GenerateFn = func(context.Context, string, int) ([]domain.Pair, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if next >= len(rounds) {
			return nil, nil
		}
		next++
		return rounds[next-1], nil
	}
	return m
}

// MockGeneratorUnreachable simulates a provider that cannot be reached.
func MockGeneratorUnreachable() *MockGenerator {
	return &MockGenerator{Err: generation.ErrTransientFailure}
}
