// Package tui renders learning sessions and vocabulary lists in the
// terminal with bubbletea and lipgloss.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phrazzld/vokabel/internal/session"
)

// Dispatcher applies session events for a profile.
type Dispatcher interface {
	Dispatch(ctx context.Context, profile string, ev session.Event) (session.Update, error)
}

// LearnModel drives one session. Left and right arrows are the swipe
// gesture; space reveals the answer or moves to the next card.
type LearnModel struct {
	ctx     context.Context
	trainer Dispatcher
	profile string

	state    session.State
	notices  []string
	err      error
	busy     bool
	quitting bool
	width    int
}

// Ensure LearnModel implements tea.Model interface
var _ tea.Model = (*LearnModel)(nil)

// NewLearnModel creates a model for a session that was already started.
func NewLearnModel(ctx context.Context, trainer Dispatcher, profile string, started session.Update) *LearnModel {
	if trainer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("trainer cannot be nil")
	}
	return &LearnModel{
		ctx:     ctx,
		trainer: trainer,
		profile: profile,
		state:   started.State,
		notices: started.Warnings,
	}
}

// State returns the last session state the model received.
func (m *LearnModel) State() session.State { return m.state }

// Err returns the last dispatch error, if any.
func (m *LearnModel) Err() error { return m.err }

// dispatchedMsg carries the result of a dispatched event.
type dispatchedMsg struct {
	update  session.Update
	err     error
	closing bool
}

// Init implements tea.Model.
func (m *LearnModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *LearnModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case dispatchedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.state = msg.update.State
			m.notices = msg.update.Warnings
		}
		if msg.closing {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *LearnModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, m.dispatch(session.Close{}, true)
	}

	switch m.state.Phase {
	case session.PhaseFront:
		switch msg.String() {
		case " ", "enter", "up", "down":
			return m, m.dispatch(session.Reveal{}, false)
		case "s":
			return m, m.dispatch(session.Advance{}, false)
		}

	case session.PhaseBack:
		switch msg.String() {
		case "right", "l":
			return m, m.dispatch(session.Swipe{Gesture: session.GestureRight}, false)
		case "left", "h":
			return m, m.dispatch(session.Swipe{Gesture: session.GestureLeft}, false)
		case "y":
			return m, m.dispatch(session.Judge{Correct: true}, false)
		case "n":
			return m, m.dispatch(session.Judge{Correct: false}, false)
		case " ", "enter", "s":
			return m, m.dispatch(session.Advance{}, false)
		}

	case session.PhaseSummary, session.PhaseClosed, session.PhaseIdle:
		switch msg.String() {
		case " ", "enter":
			return m, m.dispatch(session.Close{}, true)
		}
	}
	return m, nil
}

func (m *LearnModel) dispatch(ev session.Event, closing bool) tea.Cmd {
	m.busy = true
	ctx, trainer, profile := m.ctx, m.trainer, m.profile
	return func() tea.Msg {
		update, err := trainer.Dispatch(ctx, profile, ev)
		return dispatchedMsg{update: update, err: err, closing: closing}
	}
}

// View implements tea.Model.
func (m *LearnModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(Title.Render("Vokabeltrainer · " + m.profile))
	b.WriteString("\n")

	switch m.state.Phase {
	case session.PhaseFront, session.PhaseBack:
		b.WriteString(m.viewCard())
	case session.PhaseSummary:
		b.WriteString(RenderSummary(m.state.Summary))
		b.WriteString(Help.Render("enter: beenden"))
	default:
		b.WriteString(Status.Render("Keine aktive Sitzung."))
		b.WriteString(Help.Render("enter: beenden"))
	}

	for _, n := range m.notices {
		b.WriteString("\n")
		b.WriteString(Notice.Render(n))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(Error.Render(m.err.Error()))
	}

	return App.Render(b.String())
}

func (m *LearnModel) viewCard() string {
	var b strings.Builder

	pass := "Hauptrunde"
	if m.state.Pass == session.PassRepeat {
		pass = "Wiederholung"
	}
	status := fmt.Sprintf("%s · noch %d", pass, m.state.Remaining())
	if m.state.RepeatPending() {
		status += fmt.Sprintf(" · %d zur Wiederholung", len(m.state.Repeat))
	}
	b.WriteString(Status.Render(status))
	b.WriteString("\n")

	body := Prompt.Render(m.state.Prompt())
	if m.state.Phase == session.PhaseBack {
		body += "\n\n" + Answer.Render(m.state.Answer())
		switch m.state.Result {
		case session.ResultCorrect:
			body += "\n\n" + CorrectText.Render("✓ richtig")
		case session.ResultWrong:
			body += "\n\n" + WrongText.Render("✗ falsch")
		}
	}
	b.WriteString(Card.Render(body))

	if m.state.Phase == session.PhaseFront {
		b.WriteString(Help.Render("space: aufdecken · s: überspringen · q: beenden"))
	} else if m.state.Result == session.ResultUnscored {
		b.WriteString(Help.Render("→ richtig · ← falsch · space: weiter · q: beenden"))
	} else {
		b.WriteString(Help.Render("space: weiter · q: beenden"))
	}
	return b.String()
}
