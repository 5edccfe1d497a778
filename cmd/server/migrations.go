package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/platform/postgres"
)

// handleMigrations runs a goose command against the cloud database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Cloud.DatabaseURL == "" {
		return fmt.Errorf("cloud database URL is not configured")
	}

	db, err := postgres.Open(ctx, cfg.Cloud.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", slog.String("error", cerr.Error()))
		}
	}()

	logger.Info("executing migrations", slog.String("command", command))
	switch command {
	case "up":
		return postgres.Migrate(ctx, db, logger)
	case "down":
		return postgres.Rollback(ctx, db, logger)
	case "status":
		return postgres.MigrationStatus(ctx, db, logger)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
