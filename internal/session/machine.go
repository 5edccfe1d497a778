package session

import (
	"fmt"
	"strings"

	"github.com/phrazzld/vokabel/internal/rng"
)

// ParseDirectionMode converts a user-supplied mode. Empty means forward.
func ParseDirectionMode(name string) (DirectionMode, error) {
	switch DirectionMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeForward:
		return ModeForward, nil
	case ModeReverse:
		return ModeReverse, nil
	case ModeMixed:
		return ModeMixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, name)
	}
}

// Step applies ev to s. It returns the next state and the statistics
// effects to persist, or the unchanged state and an error. rnd is only
// consulted for mixed direction mode and may be nil otherwise.
func Step(s State, ev Event, rnd rng.Source) (State, []Effect, error) {
	switch e := ev.(type) {
	case Start:
		return start(s, e, rnd)
	case Reveal:
		return reveal(s)
	case Judge:
		return judge(s, e.Correct)
	case Swipe:
		return swipe(s, e.Gesture)
	case Advance:
		return advance(s, rnd)
	case Close:
		return State{SessionID: s.SessionID, Phase: PhaseClosed}, nil, nil
	default:
		return s, nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func start(s State, e Start, rnd rng.Source) (State, []Effect, error) {
	if s.Active() {
		return s, nil, ErrSessionActive
	}
	if len(e.Stack) == 0 {
		return s, nil, ErrEmptyStack
	}
	mode := e.Mode
	if mode == "" {
		mode = ModeForward
	}
	if _, err := ParseDirectionMode(string(mode)); err != nil {
		return s, nil, err
	}

	next := State{
		SessionID: s.SessionID,
		Mode:      mode,
		Pass:      PassMain,
		Stack:     append([]Card{}, e.Stack...),
		Repeat:    []Card{},
		Summary:   []Outcome{},
	}
	return enterCard(next, 0, rnd)
}

func reveal(s State) (State, []Effect, error) {
	switch s.Phase {
	case PhaseFront:
		s.Phase = PhaseBack
		return s, nil, nil
	case PhaseBack:
		return s, nil, nil
	default:
		return s, nil, inactiveError(s)
	}
}

func judge(s State, correct bool) (State, []Effect, error) {
	switch s.Phase {
	case PhaseFront:
		return s, nil, ErrCardNotRevealed
	case PhaseBack:
	default:
		return s, nil, inactiveError(s)
	}
	if s.Result != ResultUnscored {
		return s, nil, nil
	}

	card := s.Stack[s.Cursor]
	s.Result = ResultWrong
	if correct {
		s.Result = ResultCorrect
	}
	if !correct && s.Pass == PassMain {
		s.Repeat = append(append([]Card{}, s.Repeat...), card)
	}
	return s, []Effect{Scored{Key: card.Key, Correct: correct, Pass: s.Pass}}, nil
}

// swipe interprets a gesture. Gestures on the front are ignored.
func swipe(s State, g Gesture) (State, []Effect, error) {
	var correct bool
	switch g {
	case GestureRight:
		correct = true
	case GestureLeft:
	default:
		return s, nil, fmt.Errorf("%w: %q", ErrInvalidGesture, g)
	}
	if s.Phase == PhaseFront {
		return s, nil, nil
	}
	return judge(s, correct)
}

func advance(s State, rnd rng.Source) (State, []Effect, error) {
	if !s.Active() {
		return s, nil, inactiveError(s)
	}

	card := s.Stack[s.Cursor]
	s.Summary = append(append([]Outcome{}, s.Summary...), Outcome{
		Source: card.Source,
		Target: card.Target,
		Result: s.Result,
		Pass:   s.Pass,
	})

	if s.Cursor+1 < len(s.Stack) {
		return enterCard(s, s.Cursor+1, rnd)
	}

	if s.Pass == PassMain && len(s.Repeat) > 0 {
		s.Pass = PassRepeat
		s.Stack = s.Repeat
		s.Repeat = []Card{}
		return enterCard(s, 0, rnd)
	}

	s.Phase = PhaseSummary
	s.Stack = nil
	s.Cursor = 0
	s.Direction = ""
	s.Result = ""
	return s, nil, nil
}

func enterCard(s State, cursor int, rnd rng.Source) (State, []Effect, error) {
	s.Cursor = cursor
	s.Phase = PhaseFront
	s.Result = ResultUnscored
	s.Direction = resolveDirection(s.Mode, rnd)
	card := s.Stack[cursor]
	return s, []Effect{Shown{Key: card.Key, SessionID: s.SessionID}}, nil
}

func resolveDirection(mode DirectionMode, rnd rng.Source) Direction {
	switch mode {
	case ModeReverse:
		return DirectionReverse
	case ModeMixed:
		if rnd != nil && rng.Flip(rnd) {
			return DirectionReverse
		}
		return DirectionForward
	default:
		return DirectionForward
	}
}

func inactiveError(s State) error {
	if s.Phase == PhaseSummary {
		return ErrSessionFinished
	}
	return ErrNoActiveSession
}
