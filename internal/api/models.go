package api

import (
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
)

// GenerateRequest is the payload of POST /ai-vocab and of the profile
// generate endpoint. Zero values take the defaults "Alltag" and 10.
type GenerateRequest struct {
	Topic string `json:"topic" validate:"max=200"`
	Count int    `json:"count" validate:"gte=0"`
}

// AddEntryRequest defines the payload for adding one entry.
type AddEntryRequest struct {
	Source string `json:"source" validate:"required,max=500"`
	Target string `json:"target" validate:"required,max=500"`
}

// StartSessionRequest configures a new learning session.
type StartSessionRequest struct {
	Size   int    `json:"size"   validate:"gte=0"`
	Policy string `json:"policy" validate:"omitempty,oneof=normal hard-only gated weighted"`
	Mode   string `json:"mode"   validate:"omitempty,oneof=forward reverse mixed"`
}

// JudgeRequest scores the card on display.
type JudgeRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// SwipeRequest scores the card on display with a gesture.
type SwipeRequest struct {
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

// EntriesResponse lists a profile's vocabulary.
type EntriesResponse struct {
	Profile string              `json:"profile"`
	Count   int                 `json:"count"`
	Entries []service.EntryView `json:"entries"`
}

// SessionResponse is the view of a session after an action.
type SessionResponse struct {
	State     session.State `json:"state"`
	Prompt    string        `json:"prompt,omitempty"`
	Answer    string        `json:"answer,omitempty"`
	Remaining int           `json:"remaining"`
	Repeat    bool          `json:"repeatPending"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// JobResponse acknowledges a queued background job.
type JobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// ImportResponse reports a spreadsheet import.
type ImportResponse struct {
	service.MergeReport
	Rows   int `json:"rows"`
	Folded int `json:"folded"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
	Cloud  string `json:"cloud,omitempty"`
}

func newSessionResponse(u session.Update) SessionResponse {
	return SessionResponse{
		State:     u.State,
		Prompt:    u.State.Prompt(),
		Answer:    u.State.Answer(),
		Remaining: u.State.Remaining(),
		Repeat:    u.State.RepeatPending(),
		Warnings:  u.Warnings,
	}
}
