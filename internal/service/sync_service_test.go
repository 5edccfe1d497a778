package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/mocks"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/store"
)

func remoteEntry(t *testing.T, source, target string, correct, wrong int) domain.VocabEntry {
	t.Helper()
	e, err := domain.NewVocabEntry(source, target)
	require.NoError(t, err)
	for i := 0; i < correct; i++ {
		e.Stats = e.Stats.RecordShown(9).RecordOutcome(true)
	}
	for i := 0; i < wrong; i++ {
		e.Stats = e.Stats.RecordShown(9).RecordOutcome(false)
	}
	return e
}

func TestSync_MergesAndUploads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)

	var uploaded []domain.VocabEntry
	cloud := &mocks.MockCloudStore{
		ReadProfileFn: func(_ context.Context, id string) ([]domain.VocabEntry, error) {
			assert.Equal(t, "p", id)
			return []domain.VocabEntry{
				remoteEntry(t, "haus", "casa", 2, 1),
				remoteEntry(t, "Hund", "perro", 0, 1),
			}, nil
		},
		UpsertProfileFn: func(_ context.Context, _ string, entries []domain.VocabEntry) error {
			uploaded = entries
			return nil
		},
	}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	report, err := svc.Sync(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Downloaded)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, 2, report.Uploaded)
	assert.Empty(t, report.UploadError)

	require.Len(t, uploaded, 2)
	assert.Equal(t, "Haus", uploaded[0].Source)
	assert.Equal(t, 2, uploaded[0].Stats.CorrectCount)
	assert.Equal(t, 3, uploaded[0].Stats.TimesShown)
	assert.Equal(t, []int64{9}, uploaded[0].Stats.SessionsSeen)
}

func TestSync_UploadFailureKeepsLocalMerge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	cloud := &mocks.MockCloudStore{
		ReadProfileFn: func(context.Context, string) ([]domain.VocabEntry, error) {
			return []domain.VocabEntry{remoteEntry(t, "Hund", "perro", 1, 0)}, nil
		},
		UpsertProfileFn: func(context.Context, string, []domain.VocabEntry) error {
			return store.ErrUnavailable
		},
	}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	report, err := svc.Sync(ctx, "p")
	require.NoError(t, err)
	assert.Contains(t, report.UploadError, "unavailable")
	assert.Zero(t, report.Uploaded)

	entries, err := f.trainer.Entries(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSync_DownloadFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	uploadCalled := false
	cloud := &mocks.MockCloudStore{
		ReadProfileFn: func(context.Context, string) ([]domain.VocabEntry, error) {
			return nil, store.ErrUnavailable
		},
		UpsertProfileFn: func(context.Context, string, []domain.VocabEntry) error {
			uploadCalled = true
			return nil
		},
	}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	_, err = svc.Sync(ctx, "p")
	assert.ErrorIs(t, err, store.ErrUnavailable)
	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.False(t, uploadCalled)
}

func TestSync_Disabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc, err := NewSyncService(f.profiles, nil, nil)
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), "p")
	assert.ErrorIs(t, err, ErrSyncDisabled)
}

func TestSync_SyncOpened(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Open(ctx, "a")
	require.NoError(t, err)
	_, err = f.trainer.Entries(ctx, "loaded-not-opened")
	require.NoError(t, err)
	_, err = f.trainer.Open(ctx, "b")
	require.NoError(t, err)

	var synced []string
	cloud := &mocks.MockCloudStore{
		ReadProfileFn: func(_ context.Context, id string) ([]domain.VocabEntry, error) {
			synced = append(synced, id)
			if id == "a" {
				return nil, errors.New("boom")
			}
			return nil, nil
		},
		UpsertProfileFn: func(context.Context, string, []domain.VocabEntry) error { return nil },
	}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	reports := svc.SyncOpened(ctx)
	assert.Equal(t, []string{"a", "b"}, synced)
	require.Len(t, reports, 1)
	assert.Equal(t, "b", reports[0].Profile)
}

// reviewOnce runs a one-card session on profile and answers it correctly.
func reviewOnce(t *testing.T, trainer TrainerService, profile string) {
	t.Helper()
	ctx := context.Background()
	_, err := trainer.StartSession(ctx, profile, StartOptions{})
	require.NoError(t, err)
	for _, ev := range []session.Event{session.Reveal{}, session.Judge{Correct: true}, session.Advance{}, session.Close{}} {
		_, err := trainer.Dispatch(ctx, profile, ev)
		require.NoError(t, err, "%T", ev)
	}
}

func statsOf(t *testing.T, trainer TrainerService, profile string) domain.Statistics {
	t.Helper()
	entries, err := trainer.Entries(context.Background(), profile)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return entries[0].Stats
}

func TestSync_RepeatedSyncsDoNotRecount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)
	reviewOnce(t, f.trainer, "p")

	cloud := &mocks.MockCloudStore{}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		_, err := svc.Sync(ctx, "p")
		require.NoError(t, err)

		st := statsOf(t, f.trainer, "p")
		assert.Equal(t, 1, st.CorrectCount, "sync %d", i)
		assert.Equal(t, 1, st.TimesShown, "sync %d", i)
		assert.Equal(t, []bool{true}, st.RecentOutcomes, "sync %d", i)
	}

	remote, err := cloud.ReadProfile(ctx, "p")
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, 1, remote[0].Stats.CorrectCount)
	assert.Equal(t, 4, cloud.Uploads())
}

func TestSync_TwoClientsConverge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cloud := &mocks.MockCloudStore{}

	laptop, phone := newFixture(t), newFixture(t)
	laptopSync, err := NewSyncService(laptop.profiles, cloud, nil)
	require.NoError(t, err)
	phoneSync, err := NewSyncService(phone.profiles, cloud, nil)
	require.NoError(t, err)

	_, err = laptop.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)
	reviewOnce(t, laptop.trainer, "p")
	_, err = laptopSync.Sync(ctx, "p")
	require.NoError(t, err)

	report, err := phoneSync.Sync(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	reviewOnce(t, phone.trainer, "p")
	_, err = phoneSync.Sync(ctx, "p")
	require.NoError(t, err)

	report, err = laptopSync.Sync(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Merged)

	for _, sync := range []SyncService{laptopSync, phoneSync, laptopSync, phoneSync} {
		_, err := sync.Sync(ctx, "p")
		require.NoError(t, err)
	}
	for name, f := range map[string]fixture{"laptop": laptop, "phone": phone} {
		st := statsOf(t, f.trainer, "p")
		assert.Equal(t, 2, st.CorrectCount, name)
		assert.Equal(t, 2, st.TimesShown, name)
		assert.Equal(t, []bool{true, true}, st.RecentOutcomes, name)
	}
}

func TestSync_UploadFailureDoesNotRecountOnRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.trainer.Add(ctx, "p", "Haus", "casa")
	require.NoError(t, err)

	remote := []domain.VocabEntry{remoteEntry(t, "Haus", "casa", 2, 0)}
	failUpload := true
	cloud := &mocks.MockCloudStore{
		ReadProfileFn: func(context.Context, string) ([]domain.VocabEntry, error) {
			return remote, nil
		},
		UpsertProfileFn: func(_ context.Context, _ string, entries []domain.VocabEntry) error {
			if failUpload {
				return store.ErrUnavailable
			}
			remote = entries
			return nil
		},
	}
	svc, err := NewSyncService(f.profiles, cloud, nil)
	require.NoError(t, err)

	report, err := svc.Sync(ctx, "p")
	require.NoError(t, err)
	assert.NotEmpty(t, report.UploadError)
	assert.Equal(t, 2, statsOf(t, f.trainer, "p").CorrectCount)

	failUpload = false
	report, err = svc.Sync(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, report.UploadError)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 2, statsOf(t, f.trainer, "p").CorrectCount)
	assert.Equal(t, 2, remote[0].Stats.CorrectCount)
}
