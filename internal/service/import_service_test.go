package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/mocks"
)

func newImportService(t *testing.T, f fixture, gen generation.Generator) ImportService {
	t.Helper()
	svc, err := NewImportService(f.profiles, gen, ImportOptions{MaxRounds: 3, MaxCount: 50}, nil)
	require.NoError(t, err)
	return svc
}

func TestImport_Complete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	gen := mocks.NewScriptedGenerator(pairs("Haus", "casa", "Baum", "árbol", "Tür", "puerta"))
	report, err := newImportService(t, f, gen).Generate(ctx, "p", "Haus", 2)
	require.NoError(t, err)

	assert.Equal(t, ImportComplete, report.Status)
	assert.Equal(t, pairs("Haus", "casa", "Baum", "árbol"), report.Added)
	assert.Equal(t, 1, report.Rounds)
	assert.Equal(t, "2 neue KI-Vokabeln für „Haus“ hinzugefügt.", report.Message)
	assert.Equal(t, []int{2}, gen.Counts())

	entries, err := f.trainer.Entries(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestImport_RoundsAskForRemainder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)

	gen := mocks.NewScriptedGenerator(
		pairs("haus", "casa", "Hund", "perro", "", "leer"),
		pairs("hund", "perro", "Katze", "gato"),
		pairs("Maus", "ratón"),
	)
	report, err := newImportService(t, f, gen).Generate(ctx, "p", "Tiere", 3)
	require.NoError(t, err)

	assert.Equal(t, ImportComplete, report.Status)
	assert.Equal(t, []int{3, 2, 1}, gen.Counts())
	assert.Equal(t, 3, report.Rounds)
	assert.Equal(t, 2, report.Duplicates)
	assert.Equal(t, 1, report.Unusable)
	assert.Equal(t, 3, report.Skipped())
}

func TestImport_PartialAndNone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial after max rounds", func(t *testing.T) {
		f := newFixture(t)
		gen := mocks.NewScriptedGenerator(pairs("Hund", "perro"), pairs("hund", "perro"), pairs("HUND", "can"))
		report, err := newImportService(t, f, gen).Generate(ctx, "p", "Tiere", 5)
		require.NoError(t, err)
		assert.Equal(t, ImportPartial, report.Status)
		assert.Equal(t, 3, report.Rounds)
		assert.Equal(t,
			"1 neue KI-Vokabeln für „Tiere“ hinzugefügt (weitere Vorschläge waren doppelt oder nicht nutzbar).",
			report.Message)
	})

	t.Run("empty list stops the loop", func(t *testing.T) {
		f := newFixture(t)
		gen := mocks.NewScriptedGenerator()
		report, err := newImportService(t, f, gen).Generate(ctx, "p", "Tiere", 5)
		require.NoError(t, err)
		assert.Equal(t, ImportNone, report.Status)
		assert.Equal(t, 1, report.Rounds)
		assert.Equal(t,
			"Keine neuen Vokabeln gefunden – vermutlich kennst du alle zum Thema „Tiere“ schon.",
			report.Message)
	})
}

func TestImport_ErrorKeepsEarlierRounds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name       string
		err        error
		wantStatus ImportStatus
		wantMsg    string
	}{
		{
			name:       "generator error",
			err:        fmt.Errorf("%w: no list", generation.ErrInvalidResponse),
			wantStatus: ImportFailed,
			wantMsg:    "Fehler bei der KI-Abfrage.",
		},
		{
			name:       "transport error",
			err:        fmt.Errorf("%w: connection refused", generation.ErrTransientFailure),
			wantStatus: ImportUnreachable,
			wantMsg:    "Fehler bei der Kommunikation mit dem Backend.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			round := 0
			gen := &mocks.MockGenerator{
				GenerateFn: func(context.Context, string, int) ([]domain.Pair, error) {
					round++
					if round == 1 {
						return pairs("Hund", "perro"), nil
					}
					return nil, tt.err
				},
			}

			report, err := newImportService(t, f, gen).Generate(ctx, "p", "Tiere", 3)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantMsg, report.Message)
			assert.Equal(t, 2, report.Rounds)
			assert.NotEmpty(t, report.Error)

			entries, err := f.trainer.Entries(ctx, "p")
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestImport_RoundTimeout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	gen := &mocks.MockGenerator{
		GenerateFn: func(ctx context.Context, _ string, _ int) ([]domain.Pair, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc, err := NewImportService(f.profiles, gen, ImportOptions{RoundTimeout: 10 * time.Millisecond}, nil)
	require.NoError(t, err)

	report, err := svc.Generate(context.Background(), "p", "Tiere", 3)
	require.NoError(t, err)
	assert.Equal(t, ImportUnreachable, report.Status)
}

func TestImport_BlocksSessionWhileRunning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	gen := &mocks.MockGenerator{
		GenerateFn: func(context.Context, string, int) ([]domain.Pair, error) {
			close(entered)
			<-release
			return pairs("Hund", "perro"), nil
		},
	}
	svc := newImportService(t, f, gen)

	done := make(chan ImportReport)
	go func() {
		report, _ := svc.Generate(ctx, "p", "Tiere", 1)
		done <- report
	}()

	<-entered
	_, err = f.trainer.StartSession(ctx, "p", StartOptions{})
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	_, err = svc.Generate(ctx, "p", "Tiere", 1)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(release)
	report := <-done
	assert.Equal(t, ImportComplete, report.Status)

	_, err = f.trainer.StartSession(ctx, "p", StartOptions{})
	assert.NoError(t, err)
}

func TestImport_RequestValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	disabled, err := NewImportService(f.profiles, nil, ImportOptions{}, nil)
	require.NoError(t, err)
	_, err = disabled.Generate(ctx, "p", "x", 1)
	assert.ErrorIs(t, err, ErrGenerationDisabled)

	svc := newImportService(t, f, mocks.NewScriptedGenerator())
	_, err = svc.Generate(ctx, "p", "x", 51)
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)

	_, err = svc.Generate(ctx, "bad:id", "x", 1)
	assert.True(t, errors.Is(err, ErrInvalidProfile))
}
