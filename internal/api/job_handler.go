package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/task"
)

// JobRunner queues background tasks and reports on them.
type JobRunner interface {
	Submit(ctx context.Context, t task.Task) (task.Job, error)
	Get(ctx context.Context, id uuid.UUID) (task.Job, error)
}

// ProfileValidator checks profile ids before work is queued for them.
type ProfileValidator interface {
	ValidateID(id string) (string, error)
}

// JobHandler queues vocabulary generation and reports job progress.
type JobHandler struct {
	runner   JobRunner
	importer service.ImportService
	profiles ProfileValidator
	logger   *slog.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(
	runner JobRunner,
	importer service.ImportService,
	profiles ProfileValidator,
	logger *slog.Logger,
) *JobHandler {
	if runner == nil || importer == nil || profiles == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("runner, importer and profiles are required for JobHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for JobHandler")
	}
	return &JobHandler{
		runner:   runner,
		importer: importer,
		profiles: profiles,
		logger:   logger.With(slog.String("component", "job_handler")),
	}
}

// Generate handles POST /api/profiles/{profile}/generate. The import runs
// in the background; the response carries the job id to poll.
func (h *JobHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req, true, log) {
		return
	}

	profile, err := h.profiles.ValidateID(profileFromPath(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	topic, count, err := h.importer.Validate(req.Topic, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	t, err := task.NewGenerateTask(h.importer, task.GeneratePayload{
		Profile: profile,
		Topic:   topic,
		Count:   count,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create generation job")
		return
	}

	job, err := h.runner.Submit(r.Context(), t)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to queue generation job")
		return
	}

	log.Info("generation job queued",
		slog.String("job_id", job.ID.String()),
		slog.String("profile", profile),
		slog.String("topic", topic),
		slog.Int("count", count))

	w.Header().Set("Location", "/api/jobs/"+job.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, JobResponse{
		JobID:  job.ID.String(),
		Status: string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job id")
		return
	}

	job, err := h.runner.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load job")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, job)
}
