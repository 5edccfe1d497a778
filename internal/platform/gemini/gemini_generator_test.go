package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/logger"
)

// mockModels is a fn-field stand-in for *genai.Models.
type mockModels struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content,
		cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls int
}

func (m *mockModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.calls++
	return m.GenerateContentFn(ctx, model, contents, cfg)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestGenerator(t *testing.T, m *mockModels) *GeminiGenerator {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	g, err := newGenerator(log, m, config.LLMConfig{Temperature: 0.7, MaxRetries: 1})
	require.NoError(t, err)
	return g
}

func TestNewGeminiGenerator_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "k"})
	assert.Error(t, err)

	log, _ := logger.GetTestLogger(t)
	_, err = NewGeminiGenerator(context.Background(), log, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	m := &mockModels{
		GenerateContentFn: func(_ context.Context, model string, contents []*genai.Content,
			cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			assert.Equal(t, DefaultModel, model)
			require.Len(t, contents, 1)
			assert.Contains(t, contents[0].Parts[0].Text, `Thema: "Essen"`)
			require.NotNil(t, cfg.Temperature)
			assert.InDelta(t, 0.7, *cfg.Temperature, 0.001)
			return textResponse(`[{"de":"Brot","es":"pan"},{"de":"Käse","es":"queso"},{"de":"x","es":"y"}]`), nil
		},
	}

	pairs, err := newTestGenerator(t, m).Generate(context.Background(), "Essen", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{Source: "Brot", Target: "pan"}, {Source: "Käse", Target: "queso"}}, pairs)
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		err       error
		wantErr   error
		wantCalls int
	}{
		{
			name:      "safety block is permanent",
			resp:      &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			wantErr:   generation.ErrContentBlocked,
			wantCalls: 1,
		},
		{
			name:      "no candidates",
			resp:      &genai.GenerateContentResponse{},
			wantErr:   generation.ErrInvalidResponse,
			wantCalls: 1,
		},
		{
			name:      "api error is retried",
			err:       errors.New("503 unavailable"),
			wantErr:   generation.ErrTransientFailure,
			wantCalls: 2,
		},
		{
			name:      "unparseable reply",
			resp:      textResponse("keine Liste"),
			wantErr:   generation.ErrInvalidResponse,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &mockModels{
				GenerateContentFn: func(context.Context, string, []*genai.Content,
					*genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}
			_, err := newTestGenerator(t, m).Generate(context.Background(), "Alltag", 3)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, m.calls)
		})
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	t.Parallel()
	m := &mockModels{}
	_, err := newTestGenerator(t, m).Generate(context.Background(), " ", 3)
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)
	assert.Zero(t, m.calls)
}
