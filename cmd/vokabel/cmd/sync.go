package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vokabel/internal/platform/postgres"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/store"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Merge the profile with its cloud copy and upload the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cloud store.CloudStore
			if a.cfg.Cloud.Enabled {
				db, err := postgres.Open(ctx, a.cfg.Cloud.DatabaseURL)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := db.Close(); cerr != nil {
						a.logger.Error("failed to close cloud database", slog.String("error", cerr.Error()))
					}
				}()
				if err := postgres.Migrate(ctx, db, a.logger); err != nil {
					return err
				}
				cloud = postgres.NewCloudStore(db, a.logger)
			}

			syncer, err := service.NewSyncService(a.profiles, cloud, a.logger)
			if err != nil {
				return err
			}
			report, err := syncer.Sync(ctx, a.profile)
			if err != nil {
				return err
			}

			printWarnings(cmd, report.Warnings)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d heruntergeladen, %d neu, %d zusammengeführt, %d unverändert\n",
				report.Downloaded, report.Inserted, report.Merged, report.Unchanged)
			if report.UploadError != "" {
				return fmt.Errorf("hochladen fehlgeschlagen: %s", report.UploadError)
			}
			fmt.Fprintf(out, "%d Einträge hochgeladen\n", report.Uploaded)
			return nil
		},
	}
}
