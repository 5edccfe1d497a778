package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeVocabGeneration generates vocabulary for a profile.
	TaskTypeVocabGeneration = "vocab_generation"

	// TaskTypeCloudSync syncs one profile with the cloud store.
	TaskTypeCloudSync = "cloud_sync"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task input as JSON
	Payload() []byte

	// Execute runs the task logic and returns a JSON-serializable result
	Execute(ctx context.Context) (any, error)
}

// Job is the externally visible record of a task.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Status    TaskStatus      `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Result    any             `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Done reports whether the job reached a final status.
func (j Job) Done() bool {
	return j.Status == TaskStatusCompleted || j.Status == TaskStatusFailed
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// JobStore keeps job records.
type JobStore interface {
	// Save records a new pending job for task.
	Save(ctx context.Context, task Task) (Job, error)

	// UpdateStatus changes the status of a job and records its result or error.
	UpdateStatus(ctx context.Context, id uuid.UUID, status TaskStatus, result any, errMsg string) error

	// Get returns the job with id.
	Get(ctx context.Context, id uuid.UUID) (Job, error)
}
