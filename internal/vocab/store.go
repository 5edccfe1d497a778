// Package vocab owns a profile's vocabulary entries and their statistics,
// loading and persisting them through a store.SlotStore.
package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/store"
)

// Slot name suffixes. Full names are "<profile>:<suffix>".
const (
	EntriesSlot  = "vocabList"
	CounterSlot  = "vocabSessionId"
	BaselineSlot = "cloudBaseline"
)

// ErrPersistFailed wraps storage failures on save. The in-memory state has
// already changed when it is returned; callers report it as a warning.
var ErrPersistFailed = errors.New("failed to persist vocabulary")

// IsWarning reports whether err is a non-fatal persistence failure.
func IsWarning(err error) bool {
	return errors.Is(err, ErrPersistFailed)
}

// SlotNames returns the entry-list and session-counter slot names of a profile.
func SlotNames(profile string) (entries, counter string) {
	return profile + ":" + EntriesSlot, profile + ":" + CounterSlot
}

// LoadResult describes what Load found.
type LoadResult struct {
	Loaded  int
	Dropped int
	// Warning is set when the stored list could not be read or parsed and
	// the store fell back to an empty list.
	Warning string
}

// ImportResult describes the outcome of adding a batch of pairs.
type ImportResult struct {
	Added      []domain.VocabEntry
	Duplicates int
	Unusable   int
}

// MergeResult describes the outcome of Merge and MergeSince.
type MergeResult struct {
	Inserted int
	Merged   int
	Skipped  int
	// Unchanged counts remote entries with nothing new since the baseline.
	Unchanged int
}

// Store is the vocabulary of one profile. It is safe for concurrent use.
type Store struct {
	profile      string
	entriesSlot  string
	counterSlot  string
	baselineSlot string
	slots        store.SlotStore
	logger       *slog.Logger

	mu      sync.RWMutex
	entries []domain.VocabEntry
	index   map[string]int
}

// New creates an empty Store for profile. Call Load to read persisted entries.
func New(profile string, slots store.SlotStore, logger *slog.Logger) (*Store, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	entriesSlot, counterSlot := SlotNames(profile)
	return &Store{
		profile:      profile,
		entriesSlot:  entriesSlot,
		counterSlot:  counterSlot,
		baselineSlot: profile + ":" + BaselineSlot,
		slots:        slots,
		logger:       logger.With(slog.String("component", "vocab_store"), slog.String("profile", profile)),
		entries:      []domain.VocabEntry{},
		index:        map[string]int{},
	}, nil
}

// Profile returns the profile id.
func (s *Store) Profile() string {
	return s.profile
}

// Load replaces the in-memory entries with the persisted list. It never
// fails: unreadable or unparsable data yields an empty list and a warning,
// and individual malformed entries are dropped.
func (s *Store) Load(ctx context.Context) LoadResult {
	entries, dropped, warning := s.read(ctx)

	s.mu.Lock()
	s.replace(entries)
	s.mu.Unlock()

	if warning != "" {
		s.logger.WarnContext(ctx, "vocabulary load fell back to empty list", slog.String("reason", warning))
	} else if dropped > 0 {
		s.logger.InfoContext(ctx, "dropped malformed entries on load", slog.Int("dropped", dropped))
	}
	if n := countInconsistent(entries); n > 0 {
		s.logger.DebugContext(ctx, "entries with more answers than showings", slog.Int("count", n))
	}

	return LoadResult{Loaded: len(entries), Dropped: dropped, Warning: warning}
}

func (s *Store) read(ctx context.Context) ([]domain.VocabEntry, int, string) {
	data, err := s.slots.Read(ctx, s.entriesSlot)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, 0, ""
		}
		return nil, 0, fmt.Sprintf("read failed: %v", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, 0, ""
	}

	entries, dropped, err := domain.NormalizeList(data)
	if err != nil {
		return nil, 0, fmt.Sprintf("parse failed: %v", err)
	}
	return entries, dropped, ""
}

// Save writes the full entry list.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := s.slots.Write(ctx, s.entriesSlot, data); err != nil {
		s.logger.WarnContext(ctx, "failed to save vocabulary",
			slog.Int("entries", len(s.entries)),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

// Add appends a new entry with zeroed statistics and persists. It fails with
// domain.ErrEmptyField or domain.ErrDuplicateEntry without changing state.
// A returned ErrPersistFailed means the entry was added but not saved.
func (s *Store) Add(ctx context.Context, source, target string) (domain.VocabEntry, error) {
	entry, err := domain.NewVocabEntry(source, target)
	if err != nil {
		return domain.VocabEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[entry.Key()]; exists {
		return domain.VocabEntry{}, fmt.Errorf("%w: %q", domain.ErrDuplicateEntry, entry.Source)
	}
	s.appendLocked(entry)
	return entry.Clone(), s.saveLocked(ctx)
}

// AddPairs adds every usable pair whose key is not yet present, then saves
// once. Pairs with a blank side count as unusable; pairs whose key already
// exists, including earlier pairs of the same batch, count as duplicates.
func (s *Store) AddPairs(ctx context.Context, pairs []domain.Pair) (ImportResult, error) {
	return s.AddPairsUpTo(ctx, pairs, 0)
}

// AddPairsUpTo is AddPairs that stops once limit entries were added. Pairs
// after that point are not inspected. A limit below 1 means no limit.
func (s *Store) AddPairsUpTo(ctx context.Context, pairs []domain.Pair, limit int) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult
	for _, p := range pairs {
		if limit > 0 && len(res.Added) >= limit {
			break
		}
		entry, err := domain.NewVocabEntry(p.Source, p.Target)
		if err != nil {
			res.Unusable++
			continue
		}
		if _, exists := s.index[entry.Key()]; exists {
			res.Duplicates++
			continue
		}
		s.appendLocked(entry)
		res.Added = append(res.Added, entry.Clone())
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	return res, s.saveLocked(ctx)
}

// Remove deletes every entry matching the normalized key and persists. It
// returns the number of entries removed.
func (s *Store) Remove(ctx context.Context, key string) (int, error) {
	key = domain.NormalizeKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.VocabEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Key() != key {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	if removed == 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrEntryNotFound, key)
	}
	s.replace(kept)
	return removed, s.saveLocked(ctx)
}

// Merge folds remote entries into the store. New keys are inserted as-is;
// existing keys have their statistics summed via Statistics.Merge with the
// local side first.
func (s *Store) Merge(ctx context.Context, remote []domain.VocabEntry) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	for _, r := range remote {
		if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Target) == "" {
			res.Skipped++
			continue
		}
		r = r.Clone()
		if i, exists := s.index[r.Key()]; exists {
			s.entries[i].Stats = s.entries[i].Stats.Merge(r.Stats)
			res.Merged++
			continue
		}
		s.appendLocked(r)
		res.Inserted++
	}

	if res.Inserted+res.Merged == 0 {
		return res, nil
	}
	return res, s.saveLocked(ctx)
}

// MergeSince folds in what remote recorded after baseline, keyed by
// normalized source. Keys missing locally are inserted whole; for existing
// keys only remote.Since(baseline) is merged, so merging the same remote
// twice against the same baseline changes nothing the second time.
func (s *Store) MergeSince(ctx context.Context, remote []domain.VocabEntry, baseline map[string]domain.Statistics) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	for _, r := range remote {
		if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Target) == "" {
			res.Skipped++
			continue
		}
		r = r.Clone()
		i, exists := s.index[r.Key()]
		if !exists {
			s.appendLocked(r)
			res.Inserted++
			continue
		}
		delta := r.Stats.Since(baseline[r.Key()])
		if delta.Empty() {
			res.Unchanged++
			continue
		}
		s.entries[i].Stats = s.entries[i].Stats.Merge(delta)
		res.Merged++
	}

	if res.Inserted+res.Merged == 0 {
		return res, nil
	}
	return res, s.saveLocked(ctx)
}

// Baseline returns the statistics per key recorded by the last SetBaseline.
// A missing or unreadable slot yields an empty baseline.
func (s *Store) Baseline(ctx context.Context) map[string]domain.Statistics {
	baseline := map[string]domain.Statistics{}
	data, err := s.slots.Read(ctx, s.baselineSlot)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "failed to read cloud baseline", slog.String("error", err.Error()))
		}
		return baseline
	}
	if err := json.Unmarshal(data, &baseline); err != nil {
		s.logger.WarnContext(ctx, "discarding unparsable cloud baseline", slog.String("error", err.Error()))
		return map[string]domain.Statistics{}
	}
	return baseline
}

// SetBaseline records entries as the state both sides agree on.
func (s *Store) SetBaseline(ctx context.Context, entries []domain.VocabEntry) error {
	baseline := make(map[string]domain.Statistics, len(entries))
	for _, e := range entries {
		baseline[e.Key()] = e.Stats
	}
	data, err := json.Marshal(baseline)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := s.slots.Write(ctx, s.baselineSlot, data); err != nil {
		return fmt.Errorf("%w: baseline: %v", ErrPersistFailed, err)
	}
	return nil
}

// MergeJSON normalizes a raw JSON entry list and merges it.
func (s *Store) MergeJSON(ctx context.Context, data []byte) (MergeResult, int, error) {
	entries, dropped, err := domain.NormalizeList(data)
	if err != nil {
		return MergeResult{}, 0, err
	}
	res, err := s.Merge(ctx, entries)
	return res, dropped, err
}

// RecordShown applies Statistics.RecordShown to the entry and persists.
func (s *Store) RecordShown(ctx context.Context, key string, sessionID int64) error {
	return s.update(ctx, key, func(st domain.Statistics) domain.Statistics {
		return st.RecordShown(sessionID)
	})
}

// RecordOutcome applies Statistics.RecordOutcome to the entry and persists.
func (s *Store) RecordOutcome(ctx context.Context, key string, correct bool) error {
	return s.update(ctx, key, func(st domain.Statistics) domain.Statistics {
		return st.RecordOutcome(correct)
	})
}

func (s *Store) update(ctx context.Context, key string, fn func(domain.Statistics) domain.Statistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[domain.NormalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrEntryNotFound, key)
	}
	s.entries[i].Stats = fn(s.entries[i].Stats)
	return s.saveLocked(ctx)
}

// NextSessionID increments the persisted session counter and returns the
// new value. An unreadable counter restarts from zero. When the write fails
// the new id is still returned together with an ErrPersistFailed error.
func (s *Store) NextSessionID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last int64
	if data, err := s.slots.Read(ctx, s.counterSlot); err == nil {
		if n, perr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); perr == nil && n > 0 {
			last = n
		}
	}

	next := last + 1
	if err := s.slots.Write(ctx, s.counterSlot, []byte(strconv.FormatInt(next, 10))); err != nil {
		s.logger.WarnContext(ctx, "failed to persist session counter", slog.String("error", err.Error()))
		return next, fmt.Errorf("%w: session counter: %v", ErrPersistFailed, err)
	}
	return next, nil
}

// Entries returns a copy of all entries in insertion order.
func (s *Store) Entries() []domain.VocabEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.VocabEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the entry for key.
func (s *Store) Get(key string) (domain.VocabEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[domain.NormalizeKey(key)]
	if !ok {
		return domain.VocabEntry{}, false
	}
	return s.entries[i].Clone(), true
}

// Has reports whether an entry with the normalized key exists.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[domain.NormalizeKey(key)]
	return ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) appendLocked(e domain.VocabEntry) {
	s.index[e.Key()] = len(s.entries)
	s.entries = append(s.entries, e)
}

func (s *Store) replace(entries []domain.VocabEntry) {
	s.entries = make([]domain.VocabEntry, 0, len(entries))
	s.index = make(map[string]int, len(entries))
	for _, e := range entries {
		s.appendLocked(e)
	}
}

// countInconsistent counts entries whose answer counts exceed their
// showings. Merged and legacy data can legitimately do that.
func countInconsistent(entries []domain.VocabEntry) int {
	n := 0
	for _, e := range entries {
		if !e.Stats.Consistent() {
			n++
		}
	}
	return n
}
