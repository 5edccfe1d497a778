package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/redact"
)

// ImportStatus classifies the outcome of a generation import.
type ImportStatus string

// Import statuses.
const (
	ImportComplete    ImportStatus = "complete"
	ImportPartial     ImportStatus = "partial"
	ImportNone        ImportStatus = "none"
	ImportFailed      ImportStatus = "failed"
	ImportUnreachable ImportStatus = "unreachable"
)

const defaultRoundTimeout = 30 * time.Second

// ImportReport describes a finished generation import.
type ImportReport struct {
	Topic      string        `json:"topic"`
	Requested  int           `json:"requested"`
	Added      []domain.Pair `json:"added"`
	Duplicates int           `json:"duplicates"`
	Unusable   int           `json:"unusable"`
	Rounds     int           `json:"rounds"`
	Status     ImportStatus  `json:"status"`
	// Message is the user-facing German status line.
	Message  string   `json:"message"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Skipped is the number of suggestions that were not added.
func (r ImportReport) Skipped() int {
	return r.Duplicates + r.Unusable
}

// ImportOptions configures an ImportService.
type ImportOptions struct {
	MaxRounds    int
	MaxCount     int
	RoundTimeout time.Duration
}

// ImportService adds generated vocabulary to profiles.
type ImportService interface {
	// Generate asks the generator for up to count new pairs on topic, in at
	// most MaxRounds rounds, and adds the new ones to the profile. Entries
	// added before a failing round stay persisted; the failure is reported
	// in the report, not as an error. Errors are returned only for requests
	// that never reached the generator.
	Generate(ctx context.Context, profile, topic string, count int) (ImportReport, error)

	// Validate applies defaults and bounds to a request without running it.
	// It fails with ErrGenerationDisabled when no generator is configured.
	Validate(topic string, count int) (string, int, error)
}

type importService struct {
	profiles  *Profiles
	generator generation.Generator
	opts      ImportOptions
	logger    *slog.Logger
}

// Ensure importService implements ImportService interface
var _ ImportService = (*importService)(nil)

// NewImportService creates an ImportService. A nil generator yields a
// service whose Generate fails with ErrGenerationDisabled.
func NewImportService(
	profiles *Profiles,
	generator generation.Generator,
	opts ImportOptions,
	logger *slog.Logger,
) (ImportService, error) {
	if profiles == nil {
		return nil, &ServiceError{Service: "import", Operation: "create_service", Message: "profiles cannot be nil"}
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 3
	}
	if opts.RoundTimeout <= 0 {
		opts.RoundTimeout = defaultRoundTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		profiles:  profiles,
		generator: generator,
		opts:      opts,
		logger:    logger.With(slog.String("component", "import_service")),
	}, nil
}

func (s *importService) Validate(topic string, count int) (string, int, error) {
	if s.generator == nil {
		return "", 0, ErrGenerationDisabled
	}
	return generation.ValidateRequest(topic, count, s.opts.MaxCount)
}

func (s *importService) Generate(ctx context.Context, profile, topic string, count int) (ImportReport, error) {
	if s.generator == nil {
		return ImportReport{}, ErrGenerationDisabled
	}
	topic, count, err := s.Validate(topic, count)
	if err != nil {
		return ImportReport{}, err
	}

	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return ImportReport{}, err
	}

	p.Lock()
	if p.generating {
		p.Unlock()
		return ImportReport{}, ErrGenerationInFlight
	}
	p.generating = true
	p.Unlock()

	defer func() {
		p.Lock()
		p.generating = false
		p.Unlock()
	}()

	report := ImportReport{Topic: topic, Requested: count, Added: []domain.Pair{}}
	var genErr error

	for round := 1; round <= s.opts.MaxRounds && len(report.Added) < count; round++ {
		remaining := count - len(report.Added)
		report.Rounds = round

		s.logger.DebugContext(ctx, "requesting generated vocabulary",
			slog.String("profile", p.ID),
			slog.String("topic", topic),
			slog.Int("round", round),
			slog.Int("remaining", remaining))

		roundCtx, cancel := context.WithTimeout(ctx, s.opts.RoundTimeout)
		pairs, err := s.generator.Generate(roundCtx, topic, remaining)
		cancel()
		if err != nil {
			genErr = err
			break
		}
		if len(pairs) == 0 {
			break
		}

		res, err := p.Vocab.AddPairsUpTo(ctx, pairs, remaining)
		warnings, err := splitWarning(err)
		if err != nil {
			genErr = err
			break
		}
		report.Warnings = append(report.Warnings, warnings...)
		report.Duplicates += res.Duplicates
		report.Unusable += res.Unusable
		for _, e := range res.Added {
			report.Added = append(report.Added, e.Pair())
		}
	}

	finish(&report, genErr)

	log := s.logger.With(
		slog.String("profile", p.ID),
		slog.String("topic", topic),
		slog.Int("requested", count),
		slog.Int("added", len(report.Added)),
		slog.Int("rounds", report.Rounds),
		slog.String("status", string(report.Status)))
	if genErr != nil {
		log.WarnContext(ctx, "generation import failed", slog.String("error", genErr.Error()))
	} else {
		log.InfoContext(ctx, "generation import finished")
	}
	return report, nil
}

// finish sets the status and message of a report.
func finish(r *ImportReport, err error) {
	switch {
	case err != nil && isUnreachable(err):
		r.Status = ImportUnreachable
		r.Message = "Fehler bei der Kommunikation mit dem Backend."
		r.Error = redact.Error(err)
	case err != nil:
		r.Status = ImportFailed
		r.Message = "Fehler bei der KI-Abfrage."
		r.Error = redact.Error(err)
	case len(r.Added) == 0:
		r.Status = ImportNone
		r.Message = fmt.Sprintf(
			"Keine neuen Vokabeln gefunden – vermutlich kennst du alle zum Thema „%s“ schon.", r.Topic)
	case len(r.Added) < r.Requested:
		r.Status = ImportPartial
		r.Message = fmt.Sprintf(
			"%d neue KI-Vokabeln für „%s“ hinzugefügt (weitere Vorschläge waren doppelt oder nicht nutzbar).",
			len(r.Added), r.Topic)
	default:
		r.Status = ImportComplete
		r.Message = fmt.Sprintf("%d neue KI-Vokabeln für „%s“ hinzugefügt.", len(r.Added), r.Topic)
	}
}

func isUnreachable(err error) bool {
	return errors.Is(err, generation.ErrTransientFailure) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
