package session

import "errors"

// Session errors. None of them change state.
var (
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionActive    = errors.New("a session is already running")
	ErrSessionFinished  = errors.New("session is finished")
	ErrCardNotRevealed  = errors.New("card must be revealed before it is judged")
	ErrEmptyStack       = errors.New("cannot start a session without cards")
	ErrInvalidGesture   = errors.New("invalid gesture")
	ErrInvalidDirection = errors.New("invalid direction mode")
	ErrUnknownEvent     = errors.New("unknown event")
)
