package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/tui"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <deutsch> <spanisch>",
		Short: "Add a word pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.trainer.Add(cmd.Context(), a.profile, args[0], args[1])
			if err != nil {
				return err
			}
			printWarnings(cmd, res.Warnings)
			fmt.Fprintf(cmd.OutOrStdout(), "Hinzugefügt: %s → %s\n", res.Entry.Source, res.Entry.Target)
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var hardOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the vocabulary of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.trainer.Open(cmd.Context(), a.profile)
			if err != nil {
				return err
			}
			printWarnings(cmd, res.Warnings)

			entries := res.Entries
			if hardOnly {
				entries = hardEntries(entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderEntries(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&hardOnly, "hard", false, "only show difficult words")
	return cmd
}

func hardEntries(entries []service.EntryView) []service.EntryView {
	var out []service.EntryView
	for _, e := range entries {
		if e.Hard {
			out = append(out, e)
		}
	}
	return out
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <deutsch>",
		Aliases: []string{"rm"},
		Short:   "Remove a word by its German side",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.trainer.Remove(cmd.Context(), a.profile, args[0])
			if err != nil {
				return err
			}
			printWarnings(cmd, res.Warnings)
			if res.Removed == 0 {
				return fmt.Errorf("%q ist nicht in der Liste", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entfernt: %s\n", args[0])
			return nil
		},
	}
}
