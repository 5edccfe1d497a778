package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/vokabel/internal/domain"
)

// DefaultTopic is used when a request names no topic.
const DefaultTopic = "Alltag"

// DefaultCount is used when a request asks for no particular count.
const DefaultCount = 10

// Generator suggests German–Spanish pairs for a topic.
//
// Implementations return at most count pairs. They may return fewer; callers
// deduplicate and ask again.
type Generator interface {
	Generate(ctx context.Context, topic string, count int) ([]domain.Pair, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, topic string, count int) ([]domain.Pair, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, topic string, count int) ([]domain.Pair, error) {
	return f(ctx, topic, count)
}

// ValidateRequest applies defaults and bounds to a generation request.
func ValidateRequest(topic string, count, maxCount int) (string, int, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	if count == 0 {
		count = DefaultCount
	}
	if count < 0 {
		return "", 0, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, count)
	}
	if maxCount > 0 && count > maxCount {
		return "", 0, fmt.Errorf("%w: count %d exceeds maximum %d", ErrInvalidRequest, count, maxCount)
	}
	return topic, count, nil
}
