// Package scheduler runs periodic maintenance: cloud sync of opened profiles
// and pruning of finished background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/phrazzld/vokabel/internal/service"
)

// DefaultPruneInterval is how often finished jobs are pruned.
const DefaultPruneInterval = 10 * time.Minute

// Syncer syncs every opened profile.
type Syncer interface {
	SyncOpened(ctx context.Context) []service.SyncReport
}

// Pruner drops finished job records.
type Pruner interface {
	Prune() int
}

// Config sets the job intervals. A zero SyncInterval disables the sync job.
type Config struct {
	SyncInterval  time.Duration
	PruneInterval time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	pruner    Pruner
	config    Config
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance. syncer and pruner may be nil to
// skip their jobs.
func New(syncer Syncer, pruner Pruner, config Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PruneInterval <= 0 {
		config.PruneInterval = DefaultPruneInterval
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	s.WaitForScheduleAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		syncer:    syncer,
		pruner:    pruner,
		config:    config,
		logger:    logger.With(slog.String("component", "scheduler")),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if s.syncer != nil && s.config.SyncInterval > 0 {
		if _, err := s.scheduler.Every(s.config.SyncInterval).Do(s.RunSync); err != nil {
			return fmt.Errorf("failed to schedule cloud sync: %w", err)
		}
		s.logger.Info("scheduled cloud sync", slog.String("interval", s.config.SyncInterval.String()))
	}
	if s.pruner != nil {
		if _, err := s.scheduler.Every(s.config.PruneInterval).Do(s.RunPrune); err != nil {
			return fmt.Errorf("failed to schedule job pruning: %w", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks and cancels a running sync.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

// RunSync syncs every opened profile once.
func (s *Scheduler) RunSync() {
	started := time.Now()
	reports := s.syncer.SyncOpened(s.ctx)

	failedUploads := 0
	for _, r := range reports {
		if r.UploadError != "" {
			failedUploads++
		}
	}
	s.logger.Info("scheduled sync finished",
		slog.Int("profiles", len(reports)),
		slog.Int("failed_uploads", failedUploads),
		slog.Duration("duration", time.Since(started)))
}

// RunPrune prunes finished jobs once.
func (s *Scheduler) RunPrune() {
	if removed := s.pruner.Prune(); removed > 0 {
		s.logger.Debug("pruned finished jobs", slog.Int("removed", removed))
	}
}
