package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
)

// RenderSummary renders the outcome rows of a finished session.
func RenderSummary(rows []session.Outcome) string {
	var b strings.Builder
	var correct, wrong int
	for _, r := range rows {
		mark := SkippedText.Render("–")
		switch r.Result {
		case session.ResultCorrect:
			mark = CorrectText.Render("✓")
			correct++
		case session.ResultWrong:
			mark = WrongText.Render("✗")
			wrong++
		}
		line := fmt.Sprintf("%s %s → %s", mark, r.Source, r.Target)
		if r.Pass == session.PassRepeat {
			line += Status.Render(" (Wiederholung)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(Status.Render(fmt.Sprintf("%d richtig · %d falsch · %d Karten", correct, wrong, len(rows))))
	return b.String()
}

// RenderEntries renders a vocabulary list with rate, band and the recent
// outcome trail of each entry.
func RenderEntries(entries []service.EntryView) string {
	if len(entries) == 0 {
		return Status.Render("Noch keine Vokabeln.")
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rate := "–"
		if e.Rate != nil {
			rate = fmt.Sprintf("%d%%", *e.Rate)
		}
		rows[i] = []string{e.Source, e.Target, rate, string(e.Band), Trail(e.Trail)}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Status).
		Headers("Deutsch", "Spanisch", "Quote", "Stufe", "Verlauf").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return TableCell
		}).
		String()
}

// Trail renders recent outcomes as ✓ and ✗, oldest first.
func Trail(outcomes []bool) string {
	var b strings.Builder
	for _, ok := range outcomes {
		if ok {
			b.WriteString("✓")
		} else {
			b.WriteString("✗")
		}
	}
	return b.String()
}
