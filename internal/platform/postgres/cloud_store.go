package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/store"
)

// CloudStore implements store.CloudStore on a vocab_entries table keyed by
// (profile_id, entry_key).
type CloudStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure CloudStore implements store.CloudStore interface
var _ store.CloudStore = (*CloudStore)(nil)

// NewCloudStore creates a CloudStore. db must be opened with the "pgx" driver.
func NewCloudStore(db *sql.DB, logger *slog.Logger) *CloudStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudStore{
		db:     db,
		logger: logger.With(slog.String("component", "cloud_store")),
	}
}

// rawEntry mirrors the persisted JSON shape so rows go through domain.Normalize.
type rawEntry struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Stats  rawStats `json:"stats"`
}

type rawStats struct {
	CorrectCount   int             `json:"correctCount"`
	WrongCount     int             `json:"wrongCount"`
	TimesShown     int             `json:"timesShown"`
	SessionsSeen   json.RawMessage `json:"sessionsSeen"`
	LastSessionID  *int64          `json:"lastSessionId"`
	RecentOutcomes json.RawMessage `json:"recentOutcomes"`
}

// ReadProfile implements store.CloudStore.
func (s *CloudStore) ReadProfile(ctx context.Context, profileID string) ([]domain.VocabEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, target, correct_count, wrong_count, times_shown,
		       sessions_seen, last_session_id, recent_outcomes
		FROM vocab_entries
		WHERE profile_id = $1
		ORDER BY created_at, entry_key
	`, profileID)
	if err != nil {
		log.Error("failed to query cloud entries",
			slog.String("profile", profileID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.VocabEntry{}
	dropped := 0
	for rows.Next() {
		var (
			r          rawEntry
			sessions   []byte
			outcomes   []byte
			lastSessID sql.NullInt64
		)
		if err := rows.Scan(
			&r.Source, &r.Target,
			&r.Stats.CorrectCount, &r.Stats.WrongCount, &r.Stats.TimesShown,
			&sessions, &lastSessID, &outcomes,
		); err != nil {
			return nil, MapError(err)
		}
		r.Stats.SessionsSeen = sessions
		r.Stats.RecentOutcomes = outcomes
		if lastSessID.Valid {
			id := lastSessID.Int64
			r.Stats.LastSessionID = &id
		}

		data, err := json.Marshal(r)
		if err != nil {
			dropped++
			continue
		}
		entry, err := domain.Normalize(data)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if dropped > 0 {
		log.Warn("dropped malformed cloud entries",
			slog.String("profile", profileID),
			slog.Int("dropped", dropped))
	}
	log.Debug("read cloud profile",
		slog.String("profile", profileID),
		slog.Int("entries", len(entries)))

	return entries, nil
}

// UpsertProfile implements store.CloudStore. All rows are written in one
// transaction; stored rows are replaced by the given values, so summing
// must already have happened in the caller's merge.
func (s *CloudStore) UpsertProfile(ctx context.Context, profileID string, entries []domain.VocabEntry) error {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return fmt.Errorf("%w: empty profile id", store.ErrInvalidEntity)
	}
	if len(entries) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO vocab_entries (
				profile_id, entry_key, source, target,
				correct_count, wrong_count, times_shown,
				sessions_seen, last_session_id, recent_outcomes, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10::jsonb, NOW())
			ON CONFLICT (profile_id, entry_key) DO UPDATE SET
				source = EXCLUDED.source,
				target = EXCLUDED.target,
				correct_count = EXCLUDED.correct_count,
				wrong_count = EXCLUDED.wrong_count,
				times_shown = EXCLUDED.times_shown,
				sessions_seen = EXCLUDED.sessions_seen,
				last_session_id = EXCLUDED.last_session_id,
				recent_outcomes = EXCLUDED.recent_outcomes,
				updated_at = NOW()
		`)
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range entries {
			sessions, err := json.Marshal(nonNil(e.Stats.SessionsSeen))
			if err != nil {
				return err
			}
			outcomes, err := json.Marshal(nonNil(e.Stats.RecentOutcomes))
			if err != nil {
				return err
			}
			var last sql.NullInt64
			if e.Stats.LastSessionID != nil {
				last = sql.NullInt64{Int64: *e.Stats.LastSessionID, Valid: true}
			}

			if _, err := stmt.ExecContext(ctx,
				profileID, e.Key(), e.Source, e.Target,
				e.Stats.CorrectCount, e.Stats.WrongCount, e.Stats.TimesShown,
				string(sessions), last, string(outcomes),
			); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to upsert cloud profile",
			slog.String("profile", profileID),
			slog.Int("entries", len(entries)),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("uploaded profile to cloud",
		slog.String("profile", profileID),
		slog.Int("entries", len(entries)))
	return nil
}

// Ping verifies the connection.
func (s *CloudStore) Ping(ctx context.Context) error {
	return MapError(s.db.PingContext(ctx))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
