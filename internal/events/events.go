package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	// TypeSessionFinished is emitted when a session reaches its summary.
	TypeSessionFinished = "session_finished"
)

// Event is something that happened to a profile.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Profile   string          `json:"profile"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SessionFinished is the payload of TypeSessionFinished.
type SessionFinished struct {
	SessionID int64 `json:"sessionId"`
	Cards     int   `json:"cards"`
	Correct   int   `json:"correct"`
	Wrong     int   `json:"wrong"`
}

// New creates an event with a fresh id. payload may be nil.
func New(eventType, profile string, payload any) (*Event, error) {
	e := &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		e.Payload = data
	}
	return e, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Handler reacts to events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}
