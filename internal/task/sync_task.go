package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/vokabel/internal/service"
)

// Syncer is the part of service.SyncService a SyncTask needs.
type Syncer interface {
	Sync(ctx context.Context, profile string) (service.SyncReport, error)
}

// SyncTask syncs one profile in the background.
type SyncTask struct {
	id      uuid.UUID
	profile string
	syncer  Syncer
}

// Ensure SyncTask implements Task interface
var _ Task = (*SyncTask)(nil)

// NewSyncTask creates a sync task for profile.
func NewSyncTask(syncer Syncer, profile string) (*SyncTask, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}
	return &SyncTask{id: uuid.New(), profile: profile, syncer: syncer}, nil
}

func (t *SyncTask) ID() uuid.UUID { return t.id }

func (t *SyncTask) Type() string { return TaskTypeCloudSync }

func (t *SyncTask) Payload() []byte {
	data, _ := json.Marshal(map[string]string{"profile": t.profile})
	return data
}

// Execute implements Task.
func (t *SyncTask) Execute(ctx context.Context) (any, error) {
	report, err := t.syncer.Sync(ctx, t.profile)
	if err != nil {
		return nil, err
	}
	return report, nil
}
