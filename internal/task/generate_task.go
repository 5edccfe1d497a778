package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/vokabel/internal/service"
)

// Importer is the part of service.ImportService a GenerateTask needs.
type Importer interface {
	Generate(ctx context.Context, profile, topic string, count int) (service.ImportReport, error)
}

// GeneratePayload is the input of a generation task.
type GeneratePayload struct {
	Profile string `json:"profile"`
	Topic   string `json:"topic"`
	Count   int    `json:"count"`
}

// GenerateTask runs one generation import in the background.
type GenerateTask struct {
	id       uuid.UUID
	payload  GeneratePayload
	importer Importer
}

// Ensure GenerateTask implements Task interface
var _ Task = (*GenerateTask)(nil)

// NewGenerateTask creates a task for the given request.
func NewGenerateTask(importer Importer, payload GeneratePayload) (*GenerateTask, error) {
	if importer == nil {
		return nil, fmt.Errorf("importer cannot be nil")
	}
	return &GenerateTask{id: uuid.New(), payload: payload, importer: importer}, nil
}

// ID implements Task.
func (t *GenerateTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *GenerateTask) Type() string { return TaskTypeVocabGeneration }

// Payload implements Task.
func (t *GenerateTask) Payload() []byte {
	data, _ := json.Marshal(t.payload)
	return data
}

// Execute implements Task. The import report is the result; report-level
// failures such as a generator error still complete the task.
func (t *GenerateTask) Execute(ctx context.Context) (any, error) {
	report, err := t.importer.Generate(ctx, t.payload.Profile, t.payload.Topic, t.payload.Count)
	if err != nil {
		return nil, err
	}
	return report, nil
}
