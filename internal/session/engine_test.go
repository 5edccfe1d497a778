package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/rng"
)

// mockRecorder records calls and lets tests inject failures.
type mockRecorder struct {
	shown       []string
	outcomes    []bool
	recordShown func(ctx context.Context, key string, sessionID int64) error
}

func (m *mockRecorder) RecordShown(ctx context.Context, key string, sessionID int64) error {
	m.shown = append(m.shown, key)
	if m.recordShown != nil {
		return m.recordShown(ctx, key, sessionID)
	}
	return nil
}

func (m *mockRecorder) RecordOutcome(_ context.Context, _ string, correct bool) error {
	m.outcomes = append(m.outcomes, correct)
	return nil
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(1, nil, rng.New(1), nil)
	assert.Error(t, err)

	_, err = NewEngine(1, &mockRecorder{}, nil, nil)
	assert.Error(t, err)

	e, err := NewEngine(1, &mockRecorder{}, rng.New(1), nil)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, e.State().Phase)
}

func TestEngine_AppliesEffects(t *testing.T) {
	t.Parallel()

	rec := &mockRecorder{}
	e, err := NewEngine(7, rec, rng.New(1), nil)
	require.NoError(t, err)
	ctx := context.Background()

	for _, ev := range []Event{
		Start{Stack: cards("a", "b")},
		Reveal{}, Judge{Correct: true}, Judge{Correct: false}, Advance{},
		Reveal{}, Swipe{Gesture: GestureLeft}, Advance{},
		Reveal{}, Swipe{Gesture: GestureRight}, Advance{},
	} {
		_, err := e.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "b"}, rec.shown)
	assert.Equal(t, []bool{true, false, true}, rec.outcomes)
	assert.Equal(t, PhaseSummary, e.State().Phase)
	assert.Len(t, e.State().Summary, 3)
}

func TestEngine_RejectedEventKeepsState(t *testing.T) {
	t.Parallel()

	rec := &mockRecorder{}
	e, err := NewEngine(1, rec, rng.New(1), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = e.Dispatch(ctx, Start{Stack: cards("a")})
	require.NoError(t, err)

	upd, err := e.Dispatch(ctx, Judge{Correct: true})
	assert.ErrorIs(t, err, ErrCardNotRevealed)
	assert.Equal(t, PhaseFront, upd.State.Phase)
	assert.Empty(t, rec.outcomes)
}

func TestEngine_PersistFailureIsWarning(t *testing.T) {
	t.Parallel()

	rec := &mockRecorder{
		recordShown: func(context.Context, string, int64) error {
			return errors.New("disk full")
		},
	}
	e, err := NewEngine(1, rec, rng.New(1), nil)
	require.NoError(t, err)

	upd, err := e.Dispatch(context.Background(), Start{Stack: cards("a")})
	require.NoError(t, err)
	assert.Equal(t, PhaseFront, upd.State.Phase)
	require.Len(t, upd.Warnings, 1)
	assert.Contains(t, upd.Warnings[0], "disk full")
}

// statsRecorder folds effects into per-key statistics.
type statsRecorder struct {
	stats map[string]domain.Statistics
}

func (r *statsRecorder) RecordShown(_ context.Context, key string, sessionID int64) error {
	r.stats[key] = r.stats[key].RecordShown(sessionID)
	return nil
}

func (r *statsRecorder) RecordOutcome(_ context.Context, key string, correct bool) error {
	r.stats[key] = r.stats[key].RecordOutcome(correct)
	return nil
}

func TestEngine_StatisticsNeverDecrease(t *testing.T) {
	t.Parallel()

	type counts struct{ shown, correct, wrong int }

	tests := []struct {
		name   string
		events []Event
		want   map[string]counts
	}{
		{
			name: "judgments swipes and repeat pass",
			events: []Event{
				Start{Stack: cards("a", "b")},
				Reveal{}, Judge{Correct: true}, Judge{Correct: false}, Advance{},
				Reveal{}, Swipe{Gesture: GestureLeft}, Advance{},
				Reveal{}, Swipe{Gesture: GestureRight}, Advance{},
			},
			want: map[string]counts{"a": {1, 1, 0}, "b": {2, 1, 1}},
		},
		{
			name: "rejected and ignored events",
			events: []Event{
				Start{Stack: cards("a")},
				Judge{Correct: true}, Swipe{Gesture: GestureLeft},
				Reveal{}, Reveal{}, Swipe{Gesture: "up"},
				Swipe{Gesture: GestureLeft}, Judge{Correct: true}, Advance{},
				Reveal{}, Judge{Correct: true}, Advance{},
				Reveal{}, Advance{}, Close{},
			},
			want: map[string]counts{"a": {2, 1, 1}},
		},
		{
			name: "unscored advances and a second session",
			events: []Event{
				Start{Stack: cards("a", "b")},
				Advance{},
				Reveal{}, Judge{Correct: false}, Advance{},
				Advance{},
				Close{},
				Start{Stack: cards("a")},
				Reveal{}, Swipe{Gesture: GestureRight}, Advance{},
			},
			want: map[string]counts{"a": {2, 1, 0}, "b": {2, 0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &statsRecorder{stats: map[string]domain.Statistics{}}
			e, err := NewEngine(3, rec, rng.New(1), nil)
			require.NoError(t, err)
			ctx := context.Background()

			prev := map[string]domain.Statistics{}
			for i, ev := range tt.events {
				// Rejected events are part of the mix; they must not move counters either.
				_, _ = e.Dispatch(ctx, ev)

				for key, cur := range rec.stats {
					before := prev[key]
					assert.GreaterOrEqual(t, cur.CorrectCount, before.CorrectCount, "step %d %T key %s", i, ev, key)
					assert.GreaterOrEqual(t, cur.WrongCount, before.WrongCount, "step %d %T key %s", i, ev, key)
					assert.GreaterOrEqual(t, cur.TimesShown, before.TimesShown, "step %d %T key %s", i, ev, key)
					prev[key] = cur
				}
			}

			got := map[string]counts{}
			for key, st := range rec.stats {
				got[key] = counts{st.TimesShown, st.CorrectCount, st.WrongCount}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
