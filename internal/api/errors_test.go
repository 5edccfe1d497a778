package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/spreadsheet"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty field", fmt.Errorf("add: %w", domain.ErrEmptyField), http.StatusBadRequest},
		{"malformed entry", fmt.Errorf("merge: %w", domain.ErrMalformedEntry), http.StatusBadRequest},
		{"invalid json", shared.ErrInvalidJSON, http.StatusBadRequest},
		{"invalid profile", service.ErrInvalidProfile, http.StatusBadRequest},
		{"unknown policy", selector.ErrUnknownPolicy, http.StatusBadRequest},
		{"bad file", spreadsheet.ErrUnsupportedFormat, http.StatusBadRequest},
		{"entry not found", domain.ErrEntryNotFound, http.StatusNotFound},
		{"job not found", task.ErrJobNotFound, http.StatusNotFound},
		{"slot not found", store.ErrSlotNotFound, http.StatusNotFound},
		{"duplicate", domain.ErrDuplicateEntry, http.StatusConflict},
		{"session active", session.ErrSessionActive, http.StatusConflict},
		{"generation running", service.ErrGenerationInFlight, http.StatusConflict},
		{"no entries", selector.ErrNoEntries, http.StatusUnprocessableEntity},
		{"no hard entries", selector.ErrNoQualifyingEntries, http.StatusUnprocessableEntity},
		{"not revealed", session.ErrCardNotRevealed, http.StatusUnprocessableEntity},
		{"no session", session.ErrNoActiveSession, http.StatusUnprocessableEntity},
		{"generator blocked", generation.ErrContentBlocked, http.StatusBadGateway},
		{"sync disabled", service.ErrSyncDisabled, http.StatusServiceUnavailable},
		{"queue full", task.ErrQueueFull, http.StatusServiceUnavailable},
		{
			"wrapped service error",
			service.NewServiceError("trainer", "merge", "failed", store.ErrUnavailable),
			http.StatusServiceUnavailable,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "No difficult words yet", GetSafeErrorMessage(selector.ErrNoQualifyingEntries))
	assert.Equal(t, "This word is already in the list", GetSafeErrorMessage(domain.ErrDuplicateEntry))

	// Internal details never reach the message.
	msg := GetSafeErrorMessage(errors.New("dial tcp 10.0.0.1:5432: password=hunter2"))
	assert.Equal(t, "An unexpected error occurred", msg)
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	type req struct {
		Source string `validate:"required"`
		Count  int    `validate:"gte=0"`
	}
	v := validator.New()

	err := v.Struct(req{Count: 1})
	require.Error(t, err)
	assert.Equal(t, "Invalid source: required field", SanitizeValidationError(err))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))

	err = v.Struct(req{Source: "x", Count: -1})
	require.Error(t, err)
	assert.Equal(t, "Invalid count: too small", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
