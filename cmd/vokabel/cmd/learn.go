package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/tui"
)

func newLearnCommand(a *app) *cobra.Command {
	var (
		size   int
		policy string
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Run a flashcard session in the terminal",
		Long: `Run a flashcard session. Space reveals the answer, the right arrow
marks it correct and the left arrow marks it wrong. Missed cards are
asked once more at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := selector.ParsePolicy(policy)
			if err != nil {
				return err
			}
			m, err := session.ParseDirectionMode(mode)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			started, err := a.trainer.StartSession(ctx, a.profile, service.StartOptions{Size: size, Policy: p, Mode: m})
			switch {
			case errors.Is(err, selector.ErrNoEntries):
				return fmt.Errorf("noch keine Vokabeln, füge zuerst welche hinzu")
			case errors.Is(err, selector.ErrNoQualifyingEntries):
				return fmt.Errorf("noch keine schwierigen Wörter")
			case err != nil:
				return err
			}

			model := tui.NewLearnModel(ctx, a.trainer, a.profile, started)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 0, "cards per session (default from config)")
	cmd.Flags().StringVar(&policy, "policy", string(selector.PolicyNormal), "selection policy: normal, hard-only, gated or weighted")
	cmd.Flags().StringVar(&mode, "mode", string(session.ModeForward), "direction: forward, reverse or mixed")
	return cmd
}
