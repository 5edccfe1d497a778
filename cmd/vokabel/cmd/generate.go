package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCommand(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate [thema]",
		Short: "Add generated word pairs on a topic",
		Long: `Ask the configured language model for new word pairs on a topic and
add those that are not yet in the list. Up to three rounds are requested
until the count is reached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := a.cfg.Trainer.DefaultTopic
			if len(args) == 1 {
				topic = args[0]
			}
			if count == 0 {
				count = a.cfg.Trainer.DefaultGenerateCount
			}

			report, err := a.importer.Generate(cmd.Context(), a.profile, topic, count)
			if err != nil {
				return err
			}
			printWarnings(cmd, report.Warnings)

			out := cmd.OutOrStdout()
			for _, p := range report.Added {
				fmt.Fprintf(out, "+ %s → %s\n", p.Source, p.Target)
			}
			fmt.Fprintln(out, report.Message)
			if report.Error != "" {
				return fmt.Errorf("%s", strings.TrimSpace(report.Error))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of new pairs (default from config)")
	return cmd
}
