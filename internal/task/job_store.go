package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned for unknown job ids.
var ErrJobNotFound = errors.New("job not found")

// MemoryJobStore is a JobStore that forgets finished jobs after a retention
// period.
type MemoryJobStore struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]Job
	retention time.Duration
	now       func() time.Time
}

// Ensure MemoryJobStore implements JobStore interface
var _ JobStore = (*MemoryJobStore)(nil)

// NewMemoryJobStore creates a store. A retention of zero keeps finished jobs
// for one hour.
func NewMemoryJobStore(retention time.Duration) *MemoryJobStore {
	if retention <= 0 {
		retention = time.Hour
	}
	return &MemoryJobStore{
		jobs:      make(map[uuid.UUID]Job),
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Save implements JobStore.
func (s *MemoryJobStore) Save(_ context.Context, task Task) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[task.ID()]; exists {
		return Job{}, fmt.Errorf("job %s already exists", task.ID())
	}
	now := s.now()
	job := Job{
		ID:        task.ID(),
		Type:      task.Type(),
		Status:    TaskStatusPending,
		Payload:   task.Payload(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	return job, nil
}

// UpdateStatus implements JobStore.
func (s *MemoryJobStore) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	status TaskStatus,
	result any,
	errMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job.Status = status
	job.UpdatedAt = s.now()
	if result != nil {
		job.Result = result
	}
	job.Error = errMsg
	s.jobs[id] = job
	return nil
}

// Get implements JobStore.
func (s *MemoryJobStore) Get(_ context.Context, id uuid.UUID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, nil
}

// Prune removes finished jobs older than the retention period and returns
// how many were removed.
func (s *MemoryJobStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for id, job := range s.jobs {
		if job.Done() && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
