package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/rng"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/vocab"
)

type fixture struct {
	slots    *store.MemorySlotStore
	profiles *Profiles
	trainer  TrainerService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	slots := store.NewMemorySlotStore()
	src := rng.New(7)
	profiles, err := NewProfiles(slots, src, nil)
	require.NoError(t, err)
	trainer, err := NewTrainerService(profiles, selector.New(src, nil), 10, 100, nil)
	require.NoError(t, err)
	return fixture{slots: slots, profiles: profiles, trainer: trainer}
}

func pairs(kv ...string) []domain.Pair {
	out := make([]domain.Pair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, domain.Pair{Source: kv[i], Target: kv[i+1]})
	}
	return out
}

func vocabSlots(profile string) (string, string) {
	return vocab.SlotNames(profile)
}
