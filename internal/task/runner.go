package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/vokabel/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store  JobStore
	queue  *TaskQueue
	pool   *WorkerPool
	logger *slog.Logger

	stopOnce sync.Once
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store JobStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	r := &TaskRunner{
		store:  store,
		queue:  queue,
		pool:   pool,
		logger: logger,
	}
	pool.SetHandlers(r.markProcessing, r.markDone)
	return r
}

// Submit records the task as pending and queues it. A full queue fails the
// job immediately.
func (r *TaskRunner) Submit(ctx context.Context, task Task) (Job, error) {
	job, err := r.store.Save(ctx, task)
	if err != nil {
		return Job{}, fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		_ = r.store.UpdateStatus(ctx, task.ID(), TaskStatusFailed, nil, err.Error())
		return Job{}, err
	}
	return job, nil
}

// Get returns the job record of a submitted task.
func (r *TaskRunner) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	return r.store.Get(ctx, id)
}

// Start begins processing tasks
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Stop gracefully shuts down the task runner. Queued tasks that did not
// start are left pending.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.pool.Stop()
	})
}

func (r *TaskRunner) markProcessing(ctx context.Context, task Task) {
	if err := r.store.UpdateStatus(ctx, task.ID(), TaskStatusProcessing, nil, ""); err != nil {
		r.logger.Error("failed to mark task processing", "task_id", task.ID(), "error", err)
	}
}

func (r *TaskRunner) markDone(ctx context.Context, task Task, result any, execErr error) {
	status, msg := TaskStatusCompleted, ""
	if execErr != nil {
		status, msg = TaskStatusFailed, redact.Error(execErr)
	}
	if err := r.store.UpdateStatus(ctx, task.ID(), status, result, msg); err != nil {
		r.logger.Error("failed to record task result", "task_id", task.ID(), "error", err)
	}
}
