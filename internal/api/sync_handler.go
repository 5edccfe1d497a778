package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/service"
)

// SyncHandler triggers a cloud sync of one profile.
type SyncHandler struct {
	sync   service.SyncService
	logger *slog.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync service.SyncService, logger *slog.Logger) *SyncHandler {
	if sync == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sync service cannot be nil for SyncHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SyncHandler")
	}
	return &SyncHandler{
		sync:   sync,
		logger: logger.With(slog.String("component", "sync_handler")),
	}
}

// Sync handles POST /api/profiles/{profile}/sync. A failed upload is not an
// error: the merged list is already saved locally and the report carries
// the upload error.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.sync.Sync(r.Context(), profileFromPath(r))
	if err != nil {
		HandleAPIError(w, r, err, "Cloud sync failed")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
