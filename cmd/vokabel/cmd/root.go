// Package cmd implements the vokabel command tree.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/platform/llm"
	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/platform/sqlite"
	"github.com/phrazzld/vokabel/internal/rng"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
)

// app holds what the subcommands share. It is built in PersistentPreRunE
// and released in PersistentPostRunE.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	profile  string
	slots    *sqlite.SlotStore
	profiles *service.Profiles
	trainer  service.TrainerService
	importer service.ImportService
}

type rootOptions struct {
	profile string
	dbPath  string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "vokabel",
		Short: "German–Spanish vocabulary trainer",
		Long: `vokabel keeps per-profile German–Spanish vocabulary lists, runs
flashcard sessions in the terminal and can fill lists with generated words.

Examples:
  vokabel add Haus casa
  vokabel list --profile anna
  vokabel learn --policy hard-only
  vokabel generate Essen --count 5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd.Context(), opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVarP(&opts.profile, "profile", "p", "", "profile to use (default from config)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path of the local database (default from config)")

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newRemoveCommand(a),
		newLearnCommand(a),
		newGenerateCommand(a),
		newImportCommand(a),
		newExportCommand(a),
		newSyncCommand(a),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) init(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}
	a.cfg = cfg

	// Logs go to stderr so they never mix with command output.
	a.logger, err = logger.SetupWithWriter(cfg.Server, os.Stderr)
	if err != nil {
		return err
	}

	a.profile = cfg.Trainer.DefaultProfile
	if opts.profile != "" {
		a.profile = opts.profile
	}

	a.slots, err = sqlite.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return err
	}

	generator, err := llm.NewGenerator(ctx, a.logger, cfg.LLM)
	if err != nil {
		return err
	}

	rnd := rng.NewRandom()
	if a.profiles, err = service.NewProfiles(a.slots, rnd, a.logger); err != nil {
		return err
	}
	if a.trainer, err = service.NewTrainerService(
		a.profiles,
		selector.New(rnd, nil),
		cfg.Trainer.DefaultStackSize,
		cfg.Trainer.MaxStackSize,
		a.logger,
	); err != nil {
		return err
	}
	a.importer, err = service.NewImportService(a.profiles, generator, service.ImportOptions{
		MaxRounds:    cfg.Trainer.MaxGenerateRounds,
		MaxCount:     cfg.Trainer.MaxGenerateCount,
		RoundTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
	}, a.logger)
	return err
}

func (a *app) close() error {
	if a.slots == nil {
		return nil
	}
	err := a.slots.Close()
	a.slots = nil
	return err
}

// printWarnings writes non-fatal persistence warnings to stderr.
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warnung:", w)
	}
}
