package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/logger"
)

// Error messages of the /ai-vocab contract. Every failure is a 500.
const (
	msgNoGenerator     = "Kein KI-Generator konfiguriert."
	msgGeneratorFailed = "Fehler bei der KI-Abfrage."
	msgEmptyList       = "Leere oder ungültige Vokabelliste."
	msgInvalidRequest  = "Ungültige Anfrage."
)

// VocabProxyHandler serves POST /ai-vocab: it forwards a topic to the
// generator and returns the raw suggestion list as [{"de","es"}]. It does
// not touch any profile.
type VocabProxyHandler struct {
	generator generation.Generator
	maxCount  int
	logger    *slog.Logger
}

// NewVocabProxyHandler creates the handler. A nil generator is allowed;
// requests then fail with a configuration message.
func NewVocabProxyHandler(generator generation.Generator, maxCount int, logger *slog.Logger) *VocabProxyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VocabProxyHandler")
	}
	return &VocabProxyHandler{
		generator: generator,
		maxCount:  maxCount,
		logger:    logger.With(slog.String("component", "vocab_proxy_handler")),
	}
}

// Generate handles POST /ai-vocab.
func (h *VocabProxyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgInvalidRequest, err)
		return
	}

	if h.generator == nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgNoGenerator, nil)
		return
	}

	topic, count, err := generation.ValidateRequest(req.Topic, req.Count, h.maxCount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgInvalidRequest, err)
		return
	}

	pairs, err := h.generator.Generate(r.Context(), topic, count)
	if err != nil {
		msg := msgGeneratorFailed
		if errors.Is(err, generation.ErrInvalidResponse) {
			msg = msgEmptyList
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msg, err)
		return
	}
	if len(pairs) == 0 {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgEmptyList, generation.ErrInvalidResponse)
		return
	}
	if len(pairs) > count {
		pairs = pairs[:count]
	}

	log.Info("vocabulary suggestions generated",
		slog.String("topic", topic),
		slog.Int("requested", count),
		slog.Int("returned", len(pairs)))
	shared.RespondWithJSON(w, r, http.StatusOK, generation.WireList(pairs))
}
