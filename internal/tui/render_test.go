package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
)

func TestTrail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Trail(nil))
	assert.Equal(t, "✓✗✓", Trail([]bool{true, false, true}))
}

func TestRenderEntries(t *testing.T) {
	t.Parallel()
	assert.Contains(t, RenderEntries(nil), "Noch keine Vokabeln")

	stats := domain.NewStatistics()
	stats.TimesShown = 4
	stats.CorrectCount = 3
	stats.WrongCount = 1
	stats.RecentOutcomes = []bool{true, false, true, true}

	out := RenderEntries([]service.EntryView{
		service.NewEntryView(domain.VocabEntry{Source: "Haus", Target: "casa", Stats: stats}),
		service.NewEntryView(domain.VocabEntry{Source: "Hund", Target: "perro", Stats: domain.NewStatistics()}),
	})

	assert.Contains(t, out, "Deutsch")
	assert.Contains(t, out, "Haus")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "good")
	assert.Contains(t, out, "✓✗✓✓")
	assert.Contains(t, out, "perro")
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()
	out := RenderSummary([]session.Outcome{
		{Source: "Haus", Target: "casa", Result: session.ResultWrong, Pass: session.PassMain},
		{Source: "Haus", Target: "casa", Result: session.ResultCorrect, Pass: session.PassRepeat},
		{Source: "Hund", Target: "perro", Result: session.ResultUnscored, Pass: session.PassMain},
	})

	assert.Contains(t, out, "Haus → casa")
	assert.Contains(t, out, "(Wiederholung)")
	assert.Contains(t, out, "1 richtig · 1 falsch · 3 Karten")
}
