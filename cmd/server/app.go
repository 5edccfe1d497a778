package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/events"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/llm"
	"github.com/phrazzld/vokabel/internal/platform/postgres"
	"github.com/phrazzld/vokabel/internal/platform/sqlite"
	"github.com/phrazzld/vokabel/internal/rng"
	"github.com/phrazzld/vokabel/internal/scheduler"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/task"
)

// application holds the shared dependencies of the server so they can be
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	slots   *sqlite.SlotStore
	cloudDB *sql.DB
	cloud   *postgres.CloudStore

	emitter   *events.InMemoryEmitter
	generator generation.Generator
	profiles  *service.Profiles
	trainer   service.TrainerService
	importer  service.ImportService
	syncer    service.SyncService

	jobs       *task.MemoryJobStore
	taskRunner *task.TaskRunner
	scheduler  *scheduler.Scheduler
}

// newApplication opens the stores, builds the services and starts the
// background workers. Resources opened before a failure are released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.slots, err = sqlite.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	logger.Info("local store opened", slog.String("path", cfg.Storage.Path))

	var cloud store.CloudStore
	if cfg.Cloud.Enabled {
		app.cloudDB, err = postgres.Open(ctx, cfg.Cloud.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cloud database: %w", err)
		}
		if err := postgres.Migrate(ctx, app.cloudDB, logger); err != nil {
			return nil, err
		}
		app.cloud = postgres.NewCloudStore(app.cloudDB, logger)
		cloud = app.cloud
		logger.Info("cloud sync enabled")
	}

	app.generator, err = llm.NewGenerator(ctx, logger.With(slog.String("component", "llm_generator")), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	rnd := rng.NewRandom()
	app.profiles, err = service.NewProfiles(app.slots, rnd, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile registry: %w", err)
	}

	app.emitter = events.NewInMemoryEmitter(logger)
	app.trainer, err = service.NewTrainerService(
		app.profiles,
		selector.New(rnd, nil),
		cfg.Trainer.DefaultStackSize,
		cfg.Trainer.MaxStackSize,
		logger,
		service.WithEventEmitter(app.emitter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer service: %w", err)
	}

	app.importer, err = service.NewImportService(app.profiles, app.generator, service.ImportOptions{
		MaxRounds:    cfg.Trainer.MaxGenerateRounds,
		MaxCount:     cfg.Trainer.MaxGenerateCount,
		RoundTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create import service: %w", err)
	}

	app.syncer, err = service.NewSyncService(app.profiles, cloud, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync service: %w", err)
	}

	app.jobs = task.NewMemoryJobStore(0)
	app.taskRunner = task.NewTaskRunner(app.jobs, task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	var syncer scheduler.Syncer
	if cloud != nil {
		syncer = app.syncer
		handler, err := task.NewSyncOnFinishHandler(app.syncer, app.taskRunner, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create session event handler: %w", err)
		}
		app.emitter.Register(handler)
	}
	app.scheduler = scheduler.New(syncer, app.jobs, scheduler.Config{
		SyncInterval: time.Duration(cfg.Cloud.SyncIntervalMinutes) * time.Minute,
	}, logger)
	if err := app.scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops the background workers, syncs opened profiles one last
// time when cloud sync is enabled and closes the stores.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.cloud != nil && app.syncer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		reports := app.syncer.SyncOpened(ctx)
		cancel()
		app.logger.Info("final sync finished", slog.Int("profiles", len(reports)))
	}

	if app.cloudDB != nil {
		if err := app.cloudDB.Close(); err != nil {
			app.logger.Error("error closing cloud database", slog.String("error", err.Error()))
		}
	}
	if app.slots != nil {
		if err := app.slots.Close(); err != nil {
			app.logger.Error("error closing local store", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
