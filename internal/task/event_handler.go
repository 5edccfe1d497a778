package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/events"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) (Job, error)
}

// SyncOnFinishHandler queues a cloud sync for the profile whenever one of
// its sessions reaches the summary.
type SyncOnFinishHandler struct {
	syncer    Syncer
	submitter Submitter
	logger    *slog.Logger
}

// Ensure SyncOnFinishHandler implements events.Handler interface
var _ events.Handler = (*SyncOnFinishHandler)(nil)

// NewSyncOnFinishHandler creates the handler.
func NewSyncOnFinishHandler(syncer Syncer, submitter Submitter, logger *slog.Logger) (*SyncOnFinishHandler, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncOnFinishHandler{
		syncer:    syncer,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "sync_on_finish_handler")),
	}, nil
}

// HandleEvent implements events.Handler. Other event types are ignored.
func (h *SyncOnFinishHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeSessionFinished {
		h.logger.DebugContext(ctx, "ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	t, err := NewSyncTask(h.syncer, event.Profile)
	if err != nil {
		return fmt.Errorf("failed to create sync task: %w", err)
	}
	job, err := h.submitter.Submit(ctx, t)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to submit sync task",
			slog.String("profile", event.Profile),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit sync task: %w", err)
	}
	h.logger.DebugContext(ctx, "queued sync after session",
		slog.String("profile", event.Profile),
		slog.String("job_id", job.ID.String()))
	return nil
}
