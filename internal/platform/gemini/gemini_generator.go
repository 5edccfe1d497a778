package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/rng"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// contentGenerator is the part of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger      *slog.Logger
	models      contentGenerator
	model       string
	temperature float32
	prompt      *generation.Prompt
	policy      generation.RetryPolicy
	rnd         rng.Source
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator from the LLM configuration.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg)
}

func newGenerator(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	prompt, err := generation.NewPrompt(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &GeminiGenerator{
		logger:      logger.With(slog.String("component", "gemini_generator")),
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		prompt:      prompt,
		policy:      generation.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelaySeconds),
		rnd:         rng.NewRandom(),
	}, nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, topic string, count int) ([]domain.Pair, error) {
	if strings.TrimSpace(topic) == "" || count < 1 {
		return nil, fmt.Errorf("%w: topic %q count %d", generation.ErrInvalidRequest, topic, count)
	}

	prompt, err := g.prompt.Render(topic, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: generation.SystemInstruction}}},
	}

	text, err := generation.Retry(ctx, g.logger, g.policy, g.rnd, func(ctx context.Context) (string, error) {
		return g.call(ctx, prompt, cfg)
	})
	if err != nil {
		return nil, err
	}

	pairs, err := generation.ParsePairs(text, count)
	if err != nil {
		g.logger.WarnContext(ctx, "unparseable Gemini reply",
			"reply_length", len(text),
			"error", err)
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated vocabulary",
		"topic", topic,
		"requested", count,
		"returned", len(pairs))
	return pairs, nil
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return b.String(), nil
}
