package store

import (
	"context"

	"github.com/phrazzld/vokabel/internal/domain"
)

// CloudStore is the remote side of profile sync.
type CloudStore interface {
	// ReadProfile returns every entry tagged with profileID. An unknown
	// profile yields an empty slice, not an error.
	ReadProfile(ctx context.Context, profileID string) ([]domain.VocabEntry, error)

	// UpsertProfile writes entries for profileID, replacing stored rows that
	// share a key. Rows for keys absent from entries are left untouched.
	UpsertProfile(ctx context.Context, profileID string, entries []domain.VocabEntry) error
}
