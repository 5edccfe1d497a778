package task

import (
	"context"

	"github.com/google/uuid"
)

// mockTask is a fn-field Task.
type mockTask struct {
	id        uuid.UUID
	ExecuteFn func(ctx context.Context) (any, error)
}

func newMockTask(fn func(ctx context.Context) (any, error)) *mockTask {
	return &mockTask{id: uuid.New(), ExecuteFn: fn}
}

func (t *mockTask) ID() uuid.UUID   { return t.id }
func (t *mockTask) Type() string    { return "mock_task" }
func (t *mockTask) Payload() []byte { return []byte(`{"message":"test"}`) }

func (t *mockTask) Execute(ctx context.Context) (any, error) {
	return t.ExecuteFn(ctx)
}
