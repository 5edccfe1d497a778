package session

// Event is an input to Step.
type Event interface {
	event()
}

// Gesture is a directional swipe on the card back.
type Gesture string

// Gestures. Right means correct, left means wrong.
const (
	GestureLeft  Gesture = "left"
	GestureRight Gesture = "right"
)

// Start opens a session on the given stack.
type Start struct {
	Stack []Card
	Mode  DirectionMode
}

// Reveal flips the current card to its back.
type Reveal struct{}

// Judge scores the current card.
type Judge struct {
	Correct bool
}

// Swipe scores the current card with a gesture.
type Swipe struct {
	Gesture Gesture
}

// Advance records the current card and moves on.
type Advance struct{}

// Close discards the session.
type Close struct{}

func (Start) event()   {}
func (Reveal) event()  {}
func (Judge) event()   {}
func (Swipe) event()   {}
func (Advance) event() {}
func (Close) event()   {}

// Effect is a statistics change the caller must persist.
type Effect interface {
	effect()
}

// Shown is emitted every time a card enters its front.
type Shown struct {
	Key       string
	SessionID int64
}

// Scored is emitted the first time a card is judged.
type Scored struct {
	Key     string
	Correct bool
	Pass    Pass
}

func (Shown) effect()  {}
func (Scored) effect() {}
