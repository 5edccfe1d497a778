package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/domain/difficulty"
	"github.com/phrazzld/vokabel/internal/events"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/vocab"
)

// EntryView is an entry with its derived difficulty figures.
type EntryView struct {
	Key    string            `json:"key"`
	Source string            `json:"source"`
	Target string            `json:"target"`
	Stats  domain.Statistics `json:"stats"`
	// Rate is nil for entries that were never shown.
	Rate  *int            `json:"rate"`
	Band  difficulty.Band `json:"band,omitempty"`
	Trail []bool          `json:"trail"`
	Hard  bool            `json:"hard"`
	Score float64         `json:"score"`
}

// NewEntryView derives the view of e.
func NewEntryView(e domain.VocabEntry) EntryView {
	v := EntryView{
		Key:    e.Key(),
		Source: e.Source,
		Target: e.Target,
		Stats:  e.Stats.Clone(),
		Trail:  e.Stats.Trail(),
		Hard:   difficulty.IsHard(e.Stats),
		Score:  difficulty.Score(e.Stats),
	}
	if rate, band, ok := difficulty.RateBand(e.Stats); ok {
		v.Rate = &rate
		v.Band = band
	}
	if v.Trail == nil {
		v.Trail = []bool{}
	}
	return v
}

// OpenResult is returned when a profile is opened.
type OpenResult struct {
	Profile   string      `json:"profile"`
	SessionID int64       `json:"sessionId"`
	Entries   []EntryView `json:"entries"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// EntryResult is the outcome of a single-entry mutation.
type EntryResult struct {
	Entry    EntryView `json:"entry"`
	Removed  int       `json:"removed,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// MergeReport is the outcome of merging an imported entry list.
type MergeReport struct {
	Inserted int      `json:"inserted"`
	Merged   int      `json:"merged"`
	Skipped  int      `json:"skipped"`
	Dropped  int      `json:"dropped"`
	Warnings []string `json:"warnings,omitempty"`
}

// StartOptions configures a new session.
type StartOptions struct {
	Size   int
	Policy selector.Policy
	Mode   session.DirectionMode
}

// TrainerService drives the vocabulary and learning sessions of profiles.
type TrainerService interface {
	// Open starts a new visit of the profile: it assigns the next session id
	// and discards any running session.
	Open(ctx context.Context, profile string) (OpenResult, error)

	// Entries lists the profile's entries in insertion order.
	Entries(ctx context.Context, profile string) ([]EntryView, error)

	// Add creates an entry with zeroed statistics.
	Add(ctx context.Context, profile, source, target string) (EntryResult, error)

	// Remove deletes every entry with the normalized key.
	Remove(ctx context.Context, profile, key string) (EntryResult, error)

	// Merge folds a raw JSON entry list into the profile.
	Merge(ctx context.Context, profile string, data []byte) (MergeReport, error)

	// MergeEntries folds already normalized entries into the profile.
	MergeEntries(ctx context.Context, profile string, entries []domain.VocabEntry) (MergeReport, error)

	// StartSession builds a stack and starts a session on it.
	StartSession(ctx context.Context, profile string, opts StartOptions) (session.Update, error)

	// Dispatch applies a session event other than Start.
	Dispatch(ctx context.Context, profile string, ev session.Event) (session.Update, error)

	// Session returns the current session snapshot.
	Session(ctx context.Context, profile string) (session.State, error)
}

type trainerService struct {
	profiles         *Profiles
	selector         *selector.Selector
	defaultStackSize int
	maxStackSize     int
	emitter          events.Emitter
	logger           *slog.Logger
}

// TrainerOption configures optional trainer behavior.
type TrainerOption func(*trainerService)

// WithEventEmitter makes the trainer emit events.TypeSessionFinished when a
// session reaches its summary.
func WithEventEmitter(e events.Emitter) TrainerOption {
	return func(s *trainerService) { s.emitter = e }
}

// Ensure trainerService implements TrainerService interface
var _ TrainerService = (*trainerService)(nil)

// NewTrainerService creates a TrainerService. Stack sizes of zero or less
// fall back to 10 and 100.
func NewTrainerService(
	profiles *Profiles,
	sel *selector.Selector,
	defaultStackSize, maxStackSize int,
	logger *slog.Logger,
	opts ...TrainerOption,
) (TrainerService, error) {
	if profiles == nil {
		return nil, &ServiceError{Service: "trainer", Operation: "create_service", Message: "profiles cannot be nil"}
	}
	if sel == nil {
		return nil, &ServiceError{Service: "trainer", Operation: "create_service", Message: "selector cannot be nil"}
	}
	if defaultStackSize <= 0 {
		defaultStackSize = 10
	}
	if maxStackSize <= 0 {
		maxStackSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &trainerService{
		profiles:         profiles,
		selector:         sel,
		defaultStackSize: defaultStackSize,
		maxStackSize:     maxStackSize,
		logger:           logger.With(slog.String("component", "trainer_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *trainerService) Open(ctx context.Context, profile string) (OpenResult, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return OpenResult{}, err
	}

	p.Lock()
	warning, err := s.profiles.open(ctx, p)
	sessionID := p.sessionID
	loadWarning := p.loadWarning
	p.loadWarning = ""
	p.Unlock()
	if err != nil {
		return OpenResult{}, NewServiceError("trainer", "open", "failed to open profile", err)
	}

	res := OpenResult{
		Profile:   p.ID,
		SessionID: sessionID,
		Entries:   views(p.Vocab.Entries()),
	}
	for _, w := range []string{loadWarning, warning} {
		if w != "" {
			res.Warnings = append(res.Warnings, w)
		}
	}

	s.logger.InfoContext(ctx, "profile opened",
		slog.String("profile", p.ID),
		slog.Int64("session_id", sessionID),
		slog.Int("entries", len(res.Entries)))
	return res, nil
}

func (s *trainerService) Entries(ctx context.Context, profile string) ([]EntryView, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return nil, err
	}
	return views(p.Vocab.Entries()), nil
}

func (s *trainerService) Add(ctx context.Context, profile, source, target string) (EntryResult, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return EntryResult{}, err
	}

	entry, err := p.Vocab.Add(ctx, source, target)
	warnings, err := splitWarning(err)
	if err != nil {
		return EntryResult{}, err
	}

	s.logger.InfoContext(ctx, "entry added",
		slog.String("profile", p.ID),
		slog.String("key", entry.Key()))
	return EntryResult{Entry: NewEntryView(entry), Warnings: warnings}, nil
}

func (s *trainerService) Remove(ctx context.Context, profile, key string) (EntryResult, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return EntryResult{}, err
	}

	existing, _ := p.Vocab.Get(key)
	removed, err := p.Vocab.Remove(ctx, key)
	warnings, err := splitWarning(err)
	if err != nil {
		return EntryResult{}, err
	}

	s.logger.InfoContext(ctx, "entry removed",
		slog.String("profile", p.ID),
		slog.String("key", domain.NormalizeKey(key)),
		slog.Int("removed", removed))
	return EntryResult{Entry: NewEntryView(existing), Removed: removed, Warnings: warnings}, nil
}

func (s *trainerService) Merge(ctx context.Context, profile string, data []byte) (MergeReport, error) {
	entries, dropped, err := domain.NormalizeList(data)
	if err != nil {
		return MergeReport{}, err
	}
	report, err := s.MergeEntries(ctx, profile, entries)
	report.Dropped += dropped
	return report, err
}

func (s *trainerService) MergeEntries(ctx context.Context, profile string, entries []domain.VocabEntry) (MergeReport, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return MergeReport{}, err
	}

	res, err := p.Vocab.Merge(ctx, entries)
	warnings, err := splitWarning(err)
	if err != nil {
		return MergeReport{}, NewServiceError("trainer", "merge", "failed to merge entries", err)
	}

	s.logger.InfoContext(ctx, "entries merged",
		slog.String("profile", p.ID),
		slog.Int("inserted", res.Inserted),
		slog.Int("merged", res.Merged),
		slog.Int("skipped", res.Skipped))
	return MergeReport{
		Inserted: res.Inserted,
		Merged:   res.Merged,
		Skipped:  res.Skipped,
		Warnings: warnings,
	}, nil
}

func (s *trainerService) StartSession(ctx context.Context, profile string, opts StartOptions) (session.Update, error) {
	size := opts.Size
	if size == 0 {
		size = s.defaultStackSize
	}
	if size > s.maxStackSize {
		size = s.maxStackSize
	}

	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return session.Update{}, err
	}

	p.Lock()
	defer p.Unlock()

	if p.generating {
		return session.Update{}, ErrGenerationInFlight
	}
	warnings, err := s.profiles.ensureOpen(ctx, p)
	if err != nil {
		return session.Update{}, NewServiceError("trainer", "start_session", "failed to open profile", err)
	}
	if p.engine.State().Active() {
		return session.Update{State: p.engine.State()}, session.ErrSessionActive
	}

	stack, err := s.selector.BuildStack(p.Vocab.Entries(), size, opts.Policy)
	if err != nil {
		return session.Update{State: p.engine.State()}, err
	}

	update, err := p.engine.Dispatch(ctx, session.Start{Stack: session.CardsFrom(stack), Mode: opts.Mode})
	if err != nil {
		return update, err
	}
	update.Warnings = append(warnings, update.Warnings...)

	s.logger.InfoContext(ctx, "session started",
		slog.String("profile", p.ID),
		slog.Int64("session_id", p.sessionID),
		slog.String("policy", string(opts.Policy)),
		slog.Int("cards", len(stack)))
	return update, nil
}

func (s *trainerService) Dispatch(ctx context.Context, profile string, ev session.Event) (session.Update, error) {
	if _, ok := ev.(session.Start); ok {
		return session.Update{}, fmt.Errorf("%w: start sessions with StartSession", session.ErrUnknownEvent)
	}

	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return session.Update{}, err
	}

	update, finished, err := s.dispatchLocked(ctx, p, ev)
	if err != nil {
		return update, err
	}

	if finished {
		s.logger.InfoContext(ctx, "session finished",
			slog.String("profile", p.ID),
			slog.Int64("session_id", update.State.SessionID),
			slog.Int("rows", len(update.State.Summary)))
		s.emitFinished(ctx, p.ID, update.State)
	}
	return update, nil
}

// dispatchLocked applies ev under the profile lock and reports whether the
// event moved the session into its summary.
func (s *trainerService) dispatchLocked(ctx context.Context, p *Profile, ev session.Event) (session.Update, bool, error) {
	p.Lock()
	defer p.Unlock()

	if p.engine == nil {
		return session.Update{}, false, session.ErrNoActiveSession
	}
	before := p.engine.State().Phase
	update, err := p.engine.Dispatch(ctx, ev)
	if err != nil {
		return update, false, err
	}
	return update, before != session.PhaseSummary && update.State.Phase == session.PhaseSummary, nil
}

// emitFinished announces a finished session. Emit failures are logged only.
func (s *trainerService) emitFinished(ctx context.Context, profile string, state session.State) {
	if s.emitter == nil {
		return
	}
	payload := events.SessionFinished{SessionID: state.SessionID, Cards: len(state.Summary)}
	for _, row := range state.Summary {
		switch row.Result {
		case session.ResultCorrect:
			payload.Correct++
		case session.ResultWrong:
			payload.Wrong++
		}
	}
	event, err := events.New(events.TypeSessionFinished, profile, payload)
	if err == nil {
		err = s.emitter.Emit(ctx, event)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit session event",
			slog.String("profile", profile),
			slog.String("error", err.Error()))
	}
}

func (s *trainerService) Session(ctx context.Context, profile string) (session.State, error) {
	p, err := s.profiles.Get(ctx, profile)
	if err != nil {
		return session.State{}, err
	}

	p.Lock()
	defer p.Unlock()

	if p.engine == nil {
		return session.NewState(0), nil
	}
	return p.engine.State(), nil
}

func views(entries []domain.VocabEntry) []EntryView {
	out := make([]EntryView, len(entries))
	for i, e := range entries {
		out[i] = NewEntryView(e)
	}
	return out
}

// splitWarning turns a persistence failure into a warning.
func splitWarning(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	if vocab.IsWarning(err) {
		return []string{err.Error()}, nil
	}
	return nil, err
}
