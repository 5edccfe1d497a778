package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ResultHandler receives the outcome of every executed task.
type ResultHandler func(ctx context.Context, task Task, result any, err error)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is passed to tasks and cancelled on Stop
	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// onStart is called before a task executes; onDone afterwards.
	onStart func(ctx context.Context, task Task)
	onDone  ResultHandler
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		onStart:     func(context.Context, Task) {},
		onDone:      func(context.Context, Task, any, error) {},
	}
}

// SetHandlers installs the lifecycle callbacks. Call before Start.
func (p *WorkerPool) SetHandlers(onStart func(ctx context.Context, task Task), onDone ResultHandler) {
	if onStart != nil {
		p.onStart = onStart
	}
	if onDone != nil {
		p.onDone = onDone
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop cancels running tasks and waits for every worker to exit.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			p.run(id, t)
		}
	}
}

func (p *WorkerPool) run(workerID int, t Task) {
	log := p.logger.With("worker_id", workerID, "task_id", t.ID(), "task_type", t.Type())
	log.Debug("task started")
	p.onStart(p.ctx, t)

	result, err := p.execute(t)
	if err != nil {
		log.Error("task execution failed", "error", err)
	} else {
		log.Debug("task completed")
	}
	p.onDone(p.ctx, t, result, err)
}

// execute runs t, converting a panic into an error.
func (p *WorkerPool) execute(t Task) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return t.Execute(p.ctx)
}
