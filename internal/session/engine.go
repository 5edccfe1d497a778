package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/rng"
)

// Recorder persists the statistics effects of a session.
type Recorder interface {
	RecordShown(ctx context.Context, key string, sessionID int64) error
	RecordOutcome(ctx context.Context, key string, correct bool) error
}

// Update is the result of dispatching an event through an Engine.
type Update struct {
	State State
	// Warnings holds non-fatal persistence problems. The state transition
	// happened regardless.
	Warnings []string
}

// Engine owns the session of one profile and writes its effects through a
// Recorder. It is not safe for concurrent use; callers serialize access.
type Engine struct {
	state    State
	recorder Recorder
	rnd      rng.Source
	logger   *slog.Logger
}

// NewEngine creates an idle engine for the given session id.
func NewEngine(sessionID int64, recorder Recorder, rnd rng.Source, logger *slog.Logger) (*Engine, error) {
	if recorder == nil {
		return nil, fmt.Errorf("recorder cannot be nil")
	}
	if rnd == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		state:    NewState(sessionID),
		recorder: recorder,
		rnd:      rnd,
		logger:   logger.With(slog.String("component", "session_engine")),
	}, nil
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// Dispatch applies ev and persists the resulting effects. A rejected event
// leaves the state unchanged and returns the error.
func (e *Engine) Dispatch(ctx context.Context, ev Event) (Update, error) {
	next, effects, err := Step(e.state, ev, e.rnd)
	if err != nil {
		return Update{State: e.state}, err
	}
	e.state = next

	var warnings []string
	for _, eff := range effects {
		if err := e.apply(ctx, eff); err != nil {
			e.logger.WarnContext(ctx, "failed to persist session effect",
				slog.Int64("session_id", e.state.SessionID),
				slog.String("effect", fmt.Sprintf("%T", eff)),
				slog.String("error", err.Error()))
			warnings = append(warnings, err.Error())
		}
	}

	return Update{State: e.state, Warnings: warnings}, nil
}

func (e *Engine) apply(ctx context.Context, eff Effect) error {
	switch v := eff.(type) {
	case Shown:
		return e.recorder.RecordShown(ctx, v.Key, v.SessionID)
	case Scored:
		return e.recorder.RecordOutcome(ctx, v.Key, v.Correct)
	default:
		return fmt.Errorf("unsupported effect %T", eff)
	}
}
