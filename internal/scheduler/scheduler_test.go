package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/platform/logger"
	"github.com/phrazzld/vokabel/internal/service"
)

type mockSyncer struct {
	calls        atomic.Int32
	SyncOpenedFn func(ctx context.Context) []service.SyncReport
}

func (m *mockSyncer) SyncOpened(ctx context.Context) []service.SyncReport {
	m.calls.Add(1)
	return m.SyncOpenedFn(ctx)
}

type mockPruner struct {
	calls atomic.Int32
}

func (m *mockPruner) Prune() int {
	m.calls.Add(1)
	return 1
}

func TestScheduler_RunsJobs(t *testing.T) {
	t.Parallel()

	syncer := &mockSyncer{SyncOpenedFn: func(context.Context) []service.SyncReport {
		return []service.SyncReport{{Profile: "a"}, {Profile: "b", UploadError: "down"}}
	}}
	pruner := &mockPruner{}
	log, buf := logger.GetTestLogger(t)

	s := New(syncer, pruner, Config{SyncInterval: 20 * time.Millisecond, PruneInterval: 20 * time.Millisecond}, log)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return syncer.calls.Load() >= 2 && pruner.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	logger.AssertLogContains(t, buf, `"failed_uploads":1`)
}

func TestScheduler_SyncDisabled(t *testing.T) {
	t.Parallel()

	syncer := &mockSyncer{SyncOpenedFn: func(context.Context) []service.SyncReport { return nil }}
	s := New(syncer, nil, Config{}, nil)
	require.NoError(t, s.Start())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.Zero(t, syncer.calls.Load())
}

func TestScheduler_RunSyncPassesCancellableContext(t *testing.T) {
	t.Parallel()

	var seen context.Context
	syncer := &mockSyncer{SyncOpenedFn: func(ctx context.Context) []service.SyncReport {
		seen = ctx
		return nil
	}}
	s := New(syncer, nil, Config{}, nil)
	s.RunSync()
	require.NotNil(t, seen)
	assert.NoError(t, seen.Err())

	s.Stop()
	assert.Error(t, seen.Err())
}
