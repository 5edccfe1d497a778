// Package session implements the learning-session state machine.
//
// A session is a plain State value. Step applies one Event to a State and
// returns the next State plus the Effects the caller must persist; it never
// touches storage itself. Engine wires Step to a Recorder for one profile.
package session

import "github.com/phrazzld/vokabel/internal/domain"

// Phase is the position of a session in its lifecycle.
type Phase string

// Session phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseFront   Phase = "front"
	PhaseBack    Phase = "back"
	PhaseSummary Phase = "summary"
	PhaseClosed  Phase = "closed"
)

// Pass distinguishes the main run from the single repeat run.
type Pass string

// Passes.
const (
	PassMain   Pass = "main"
	PassRepeat Pass = "repeat"
)

// Result is the judgment recorded for a card.
type Result string

// Results.
const (
	ResultUnscored Result = "unscored"
	ResultCorrect  Result = "correct"
	ResultWrong    Result = "wrong"
)

// Direction says which side of a card is the prompt.
type Direction string

// Directions.
const (
	DirectionForward Direction = "source-target"
	DirectionReverse Direction = "target-source"
)

// DirectionMode configures how directions are chosen for a session.
type DirectionMode string

// Direction modes.
const (
	ModeForward DirectionMode = "forward"
	ModeReverse DirectionMode = "reverse"
	ModeMixed   DirectionMode = "mixed"
)

// Card is the transient reference a session keeps to a vocabulary entry.
type Card struct {
	Key    string `json:"key"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Outcome is one summary row.
type Outcome struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Result Result `json:"result"`
	Pass   Pass   `json:"pass"`
}

// State is an immutable snapshot of a session. Step never modifies the
// slices of the State it receives.
type State struct {
	SessionID int64         `json:"sessionId"`
	Mode      DirectionMode `json:"mode"`
	Phase     Phase         `json:"phase"`
	Pass      Pass          `json:"pass"`
	Stack     []Card        `json:"stack"`
	Cursor    int           `json:"cursor"`
	Direction Direction     `json:"direction"`
	Result    Result        `json:"result"`
	Repeat    []Card        `json:"repeat"`
	Summary   []Outcome     `json:"summary"`
}

// NewState returns an idle session bound to a session id.
func NewState(sessionID int64) State {
	return State{SessionID: sessionID, Phase: PhaseIdle}
}

// CardsFrom converts entries into session cards, keeping their order.
func CardsFrom(entries []domain.VocabEntry) []Card {
	cards := make([]Card, len(entries))
	for i, e := range entries {
		cards[i] = Card{Key: e.Key(), Source: e.Source, Target: e.Target}
	}
	return cards
}

// Active reports whether a card is on display.
func (s State) Active() bool {
	return s.Phase == PhaseFront || s.Phase == PhaseBack
}

// Current returns the card on display.
func (s State) Current() (Card, bool) {
	if !s.Active() || s.Cursor < 0 || s.Cursor >= len(s.Stack) {
		return Card{}, false
	}
	return s.Stack[s.Cursor], true
}

// Prompt returns the side of the current card shown on the front.
func (s State) Prompt() string {
	c, ok := s.Current()
	if !ok {
		return ""
	}
	if s.Direction == DirectionReverse {
		return c.Target
	}
	return c.Source
}

// Answer returns the side of the current card revealed on the back. It is
// empty while the card is on its front.
func (s State) Answer() string {
	c, ok := s.Current()
	if !ok || s.Phase != PhaseBack {
		return ""
	}
	if s.Direction == DirectionReverse {
		return c.Source
	}
	return c.Target
}

// Remaining returns how many cards are left in the current pass, including
// the one on display.
func (s State) Remaining() int {
	if !s.Active() {
		return 0
	}
	return len(s.Stack) - s.Cursor
}

// RepeatPending reports whether a repeat pass will follow the main pass.
func (s State) RepeatPending() bool {
	return s.Active() && s.Pass == PassMain && len(s.Repeat) > 0
}

// Scored reports whether the card on display has been judged.
func (s State) Scored() bool {
	return s.Active() && s.Result != ResultUnscored
}
