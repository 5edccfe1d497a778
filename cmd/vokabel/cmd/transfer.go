package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/platform/spreadsheet"
	"github.com/phrazzld/vokabel/internal/service"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <datei>",
		Short: "Merge a JSON, CSV or XLSX word list into the profile",
		Long: `Merge a word list into the profile. New words are added; words already
in the list keep their entry and have the imported statistics added.
JSON files use the export format; CSV and XLSX files have the columns
source, target and optionally correctCount, wrongCount, timesShown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				report service.MergeReport
				err    error
			)
			if isJSON(path) {
				data, rerr := os.ReadFile(path)
				if rerr != nil {
					return rerr
				}
				report, err = a.trainer.Merge(cmd.Context(), a.profile, data)
			} else {
				sheet, rerr := spreadsheet.ReadFile(path)
				if rerr != nil {
					return rerr
				}
				report, err = a.trainer.MergeEntries(cmd.Context(), a.profile, sheet.Entries)
				report.Dropped += sheet.Dropped
			}
			if err != nil {
				return err
			}

			printWarnings(cmd, report.Warnings)
			fmt.Fprintf(cmd.OutOrStdout(), "%d neu, %d zusammengeführt, %d übersprungen, %d ungültig\n",
				report.Inserted, report.Merged, report.Skipped, report.Dropped)
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <datei>",
		Short: "Write the profile's word list to a JSON, CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			views, err := a.trainer.Entries(cmd.Context(), a.profile)
			if err != nil {
				return err
			}

			entries := make([]domain.VocabEntry, len(views))
			for i, v := range views {
				entries[i] = domain.VocabEntry{Source: v.Source, Target: v.Target, Stats: v.Stats}
			}

			if isJSON(path) {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				err = os.WriteFile(path, data, 0o644)
			} else {
				err = spreadsheet.WriteFile(path, entries)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d Einträge nach %s geschrieben\n", len(entries), path)
			return nil
		},
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
