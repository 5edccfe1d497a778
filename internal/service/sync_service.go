package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/redact"
	"github.com/phrazzld/vokabel/internal/store"
)

// SyncReport describes one profile sync.
type SyncReport struct {
	Profile    string `json:"profile"`
	Downloaded int    `json:"downloaded"`
	Inserted   int    `json:"inserted"`
	Merged     int    `json:"merged"`
	Unchanged  int    `json:"unchanged"`
	Skipped    int    `json:"skipped"`
	Uploaded   int    `json:"uploaded"`
	// UploadError is set when the merged list was saved locally but could
	// not be written back to the cloud.
	UploadError string   `json:"uploadError,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// SyncService merges cloud copies of profiles into the local store and
// uploads the result.
type SyncService interface {
	// Sync downloads the profile's cloud entries, merges what they recorded
	// since the last agreed baseline into the local list, saves locally and
	// uploads the full local list. Syncing twice without new reviews leaves
	// the statistics unchanged.
	Sync(ctx context.Context, profile string) (SyncReport, error)

	// SyncOpened syncs every profile opened in this process. Failures are
	// logged and skipped.
	SyncOpened(ctx context.Context) []SyncReport
}

type syncService struct {
	profiles *Profiles
	cloud    store.CloudStore
	logger   *slog.Logger
}

// Ensure syncService implements SyncService interface
var _ SyncService = (*syncService)(nil)

// NewSyncService creates a SyncService. A nil cloud store yields a service
// whose Sync fails with ErrSyncDisabled.
func NewSyncService(profiles *Profiles, cloud store.CloudStore, logger *slog.Logger) (SyncService, error) {
	if profiles == nil {
		return nil, &ServiceError{Service: "sync", Operation: "create_service", Message: "profiles cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &syncService{
		profiles: profiles,
		cloud:    cloud,
		logger:   logger.With(slog.String("component", "sync_service")),
	}, nil
}

func (s *syncService) Sync(ctx context.Context, profile string) (SyncReport, error) {
	if s.cloud == nil {
		return SyncReport{}, ErrSyncDisabled
	}

	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return SyncReport{}, err
	}
	report := SyncReport{Profile: p.ID}

	remote, err := s.cloud.ReadProfile(ctx, p.ID)
	if err != nil {
		return report, NewServiceError("sync", "download", "failed to read cloud profile", err)
	}
	report.Downloaded = len(remote)

	res, err := p.Vocab.MergeSince(ctx, remote, p.Vocab.Baseline(ctx))
	warnings, err := splitWarning(err)
	if err != nil {
		return report, NewServiceError("sync", "merge", "failed to merge cloud entries", err)
	}
	report.Inserted, report.Merged, report.Skipped = res.Inserted, res.Merged, res.Skipped
	report.Unchanged = res.Unchanged
	report.Warnings = warnings

	// Merge saves only when something changed; the explicit save keeps the
	// local copy current before the upload.
	if err := p.Vocab.Save(ctx); err != nil {
		report.Warnings = append(report.Warnings, err.Error())
	}
	// The downloaded state is now part of the local list. Until an upload
	// succeeds it is the baseline for the next merge.
	if err := p.Vocab.SetBaseline(ctx, remote); err != nil {
		report.Warnings = append(report.Warnings, err.Error())
	}

	local := p.Vocab.Entries()
	if err := s.cloud.UpsertProfile(ctx, p.ID, local); err != nil {
		report.UploadError = redact.Error(err)
		s.logger.WarnContext(ctx, "cloud upload failed",
			slog.String("profile", p.ID),
			slog.String("error", err.Error()))
		return report, nil
	}
	report.Uploaded = len(local)
	if err := p.Vocab.SetBaseline(ctx, local); err != nil {
		report.Warnings = append(report.Warnings, err.Error())
	}

	s.logger.InfoContext(ctx, "profile synced",
		slog.String("profile", p.ID),
		slog.Int("downloaded", report.Downloaded),
		slog.Int("inserted", report.Inserted),
		slog.Int("merged", report.Merged),
		slog.Int("uploaded", report.Uploaded))
	return report, nil
}

func (s *syncService) SyncOpened(ctx context.Context) []SyncReport {
	var reports []SyncReport
	for _, id := range s.profiles.Opened() {
		if ctx.Err() != nil {
			break
		}
		report, err := s.Sync(ctx, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "scheduled sync failed",
				slog.String("profile", id),
				slog.String("error", err.Error()))
			continue
		}
		reports = append(reports, report)
	}
	return reports
}
