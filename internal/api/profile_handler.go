package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/platform/spreadsheet"
	"github.com/phrazzld/vokabel/internal/service"
)

// maxUploadBytes bounds merge and spreadsheet uploads.
const maxUploadBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProfileHandler serves a profile's vocabulary list.
type ProfileHandler struct {
	trainer service.TrainerService
	logger  *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(trainer service.TrainerService, logger *slog.Logger) *ProfileHandler {
	if trainer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("trainer service cannot be nil for ProfileHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProfileHandler")
	}
	return &ProfileHandler{
		trainer: trainer,
		logger:  logger.With(slog.String("component", "profile_handler")),
	}
}

// Open handles POST /api/profiles/{profile}/open. It starts a new visit:
// a fresh session id is assigned and a running session is discarded.
func (h *ProfileHandler) Open(w http.ResponseWriter, r *http.Request) {
	res, err := h.trainer.Open(r.Context(), profileFromPath(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// ListEntries handles GET /api/profiles/{profile}/entries.
func (h *ProfileHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	profile := profileFromPath(r)
	entries, err := h.trainer.Entries(r.Context(), profile)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list entries")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, EntriesResponse{
		Profile: profile,
		Count:   len(entries),
		Entries: entries,
	})
}

// AddEntry handles POST /api/profiles/{profile}/entries.
func (h *ProfileHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AddEntryRequest
	if !decodeAndValidate(w, r, &req, false, log) {
		return
	}

	res, err := h.trainer.Add(r.Context(), profileFromPath(r), req.Source, req.Target)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add entry")
		return
	}

	log.Debug("entry added", slog.String("key", res.Entry.Key))
	shared.RespondWithJSON(w, r, http.StatusCreated, res)
}

// RemoveEntry handles DELETE /api/profiles/{profile}/entries/{key}. The key
// is normalized, so any casing of the source word matches.
func (h *ProfileHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || strings.TrimSpace(key) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid entry key")
		return
	}

	res, err := h.trainer.Remove(r.Context(), profileFromPath(r), key)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove entry")
		return
	}
	if res.Removed == 0 {
		HandleAPIError(w, r, domain.ErrEntryNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// Merge handles POST /api/profiles/{profile}/merge. The body is a JSON entry
// list in the persisted format; statistics of known words are summed.
func (h *ProfileHandler) Merge(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", shared.ErrInvalidJSON, err), "")
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		HandleAPIError(w, r, shared.ErrEmptyBody, "")
		return
	}

	report, err := h.trainer.Merge(r.Context(), profileFromPath(r), data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to merge entries")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Import handles POST /api/profiles/{profile}/import?format=csv|xlsx. The
// body is the file itself.
func (h *ProfileHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	format, err := requestFormat(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := spreadsheet.Read(io.LimitReader(r.Body, maxUploadBytes), format)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read file")
		return
	}

	report, err := h.trainer.MergeEntries(r.Context(), profileFromPath(r), res.Entries)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import entries")
		return
	}
	report.Dropped += res.Dropped

	log.Info("spreadsheet imported",
		slog.String("format", string(format)),
		slog.Int("rows", res.Rows),
		slog.Int("inserted", report.Inserted),
		slog.Int("merged", report.Merged))
	shared.RespondWithJSON(w, r, http.StatusOK, ImportResponse{
		MergeReport: report,
		Rows:        res.Rows,
		Folded:      res.Folded,
	})
}

// Export handles GET /api/profiles/{profile}/export?format=json|csv|xlsx.
func (h *ProfileHandler) Export(w http.ResponseWriter, r *http.Request) {
	profile := profileFromPath(r)
	views, err := h.trainer.Entries(r.Context(), profile)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export entries")
		return
	}

	entries := make([]domain.VocabEntry, len(views))
	for i, v := range views {
		entries[i] = domain.VocabEntry{Source: v.Source, Target: v.Target, Stats: v.Stats}
	}

	name := r.URL.Query().Get("format")
	if name == "" || name == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, profile))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			h.logger.Error("failed to encode export", slog.String("error", err.Error()))
		}
		return
	}

	format, err := spreadsheet.FormatOf("export." + name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, format, entries); err != nil {
		HandleAPIError(w, r, err, "Failed to export entries")
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == spreadsheet.FormatXLSX {
		contentType = xlsxContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, profile, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// requestFormat reads the upload format from the format query parameter,
// falling back to the Content-Type header.
func requestFormat(r *http.Request) (spreadsheet.Format, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		return spreadsheet.FormatOf("upload." + name)
	}
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, xlsxContentType):
		return spreadsheet.FormatXLSX, nil
	case strings.HasPrefix(ct, "text/csv"):
		return spreadsheet.FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: content type %q", spreadsheet.ErrUnsupportedFormat, ct)
	}
}
