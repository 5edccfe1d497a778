package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/vocab"
)

func openTemp(t *testing.T) (*SlotStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "vokabel.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSlotStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	_, err := s.Read(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSlotNotFound)

	require.NoError(t, s.Write(ctx, "a:vocabList", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "a:vocabList", []byte(`[1]`)))

	got, err := s.Read(ctx, "a:vocabList")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, s.Write(ctx, "empty", nil))
	got, err = s.Read(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSlotStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Write(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.NoError(t, reopened.EnsureSchema(ctx), "schema creation is idempotent")
}

func TestSlotStore_Profiles(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.Write(ctx, "zoe:vocabList", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "anna:vocabList", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "anna:vocabSessionId", []byte(`3`)))

	profiles, err := s.Profiles(ctx, vocab.EntriesSlot)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "zoe"}, profiles)
}

func TestSlotStore_BacksVocabStore(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	v, err := vocab.New("anna", s, nil)
	require.NoError(t, err)
	_, err = v.Add(ctx, "Haus", "casa")
	require.NoError(t, err)
	id, err := v.NextSessionID(ctx)
	require.NoError(t, err)
	require.NoError(t, v.RecordShown(ctx, "haus", id))

	again, err := vocab.New("anna", s, nil)
	require.NoError(t, err)
	res := again.Load(ctx)
	assert.Equal(t, 1, res.Loaded)
	e, ok := again.Get("haus")
	require.True(t, ok)
	assert.Equal(t, 1, e.Stats.TimesShown)

	next, err := again.NextSessionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id+1, next)
}
