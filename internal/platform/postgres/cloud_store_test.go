package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
)

// openTestDB connects to DATABASE_URL and applies migrations, or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping postgres integration test")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db, nil))
	return db
}

func TestNewCloudStore_NilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewCloudStore(nil, nil) })
}

func TestCloudStore_UpsertValidation(t *testing.T) {
	t.Parallel()

	s := &CloudStore{}
	err := s.UpsertProfile(context.Background(), " ", []domain.VocabEntry{{Source: "a", Target: "b"}})
	assert.Error(t, err)

	// Empty uploads never touch the database.
	assert.NoError(t, s.UpsertProfile(context.Background(), "p", nil))
}

func TestCloudStore_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewCloudStore(db, nil)
	ctx := context.Background()
	profile := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM vocab_entries WHERE profile_id = $1`, profile)
	})

	empty, err := s.ReadProfile(ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, empty)

	haus, _ := domain.NewVocabEntry("Haus", "casa")
	haus.Stats = haus.Stats.RecordShown(3).RecordOutcome(false)
	hund, _ := domain.NewVocabEntry("Hund", "perro")

	require.NoError(t, s.UpsertProfile(ctx, profile, []domain.VocabEntry{haus, hund}))

	got, err := s.ReadProfile(ctx, profile)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byKey := map[string]domain.VocabEntry{}
	for _, e := range got {
		byKey[e.Key()] = e
	}
	assert.Equal(t, haus.Stats, byKey["haus"].Stats)

	// A second upsert replaces rather than sums.
	haus.Stats = haus.Stats.RecordOutcome(true)
	require.NoError(t, s.UpsertProfile(ctx, profile, []domain.VocabEntry{haus}))
	got, err = s.ReadProfile(ctx, profile)
	require.NoError(t, err)
	for _, e := range got {
		if e.Key() == "haus" {
			assert.Equal(t, 1, e.Stats.CorrectCount)
			assert.Equal(t, 1, e.Stats.WrongCount)
		}
	}
}
