package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
)

// SessionHandler drives a profile's learning session.
type SessionHandler struct {
	trainer service.TrainerService
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(trainer service.TrainerService, logger *slog.Logger) *SessionHandler {
	if trainer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("trainer service cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		trainer: trainer,
		logger:  logger.With(slog.String("component", "session_handler")),
	}
}

// Start handles POST /api/profiles/{profile}/session. The body is optional.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, true, log) {
		return
	}

	policy, err := selector.ParsePolicy(req.Policy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	mode, err := session.ParseDirectionMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	update, err := h.trainer.StartSession(r.Context(), profileFromPath(r), service.StartOptions{
		Size:   req.Size,
		Policy: policy,
		Mode:   mode,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newSessionResponse(update))
}

// State handles GET /api/profiles/{profile}/session.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.trainer.Session(r.Context(), profileFromPath(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(session.Update{State: state}))
}

// Reveal handles POST /api/profiles/{profile}/session/reveal.
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Reveal{})
}

// Judge handles POST /api/profiles/{profile}/session/judge.
func (h *SessionHandler) Judge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if !decodeAndValidate(w, r, &req, false, h.logger) {
		return
	}
	h.dispatch(w, r, session.Judge{Correct: *req.Correct})
}

// Swipe handles POST /api/profiles/{profile}/session/swipe. A swipe on the
// front of a card is ignored.
func (h *SessionHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	var req SwipeRequest
	if !decodeAndValidate(w, r, &req, false, h.logger) {
		return
	}
	h.dispatch(w, r, session.Swipe{Gesture: session.Gesture(req.Direction)})
}

// Advance handles POST /api/profiles/{profile}/session/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Advance{})
}

// Close handles POST /api/profiles/{profile}/session/close.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Close{})
}

func (h *SessionHandler) dispatch(w http.ResponseWriter, r *http.Request, ev session.Event) {
	update, err := h.trainer.Dispatch(r.Context(), profileFromPath(r), ev)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(update))
}
