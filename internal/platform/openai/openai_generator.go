package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/rng"
)

// DefaultModel matches the model the proxy has always used.
const DefaultModel = goopenai.GPT4oMini

// Generator implements generation.Generator with chat completions.
type Generator struct {
	logger      *slog.Logger
	client      *goopenai.Client
	model       string
	temperature float32
	prompt      *generation.Prompt
	policy      generation.RetryPolicy
	rnd         rng.Source
}

// Ensure Generator implements generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a generator from the LLM configuration. A non-empty
// OpenAIBaseURL points the client at a compatible endpoint.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	prompt, err := generation.NewPrompt(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}
	if cfg.RequestTimeoutSeconds > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second}
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		logger:      logger.With(slog.String("component", "openai_generator")),
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		prompt:      prompt,
		policy:      generation.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelaySeconds),
		rnd:         rng.NewRandom(),
	}, nil
}

// Generate implements generation.Generator.
func (g *Generator) Generate(ctx context.Context, topic string, count int) ([]domain.Pair, error) {
	if strings.TrimSpace(topic) == "" || count < 1 {
		return nil, fmt.Errorf("%w: topic %q count %d", generation.ErrInvalidRequest, topic, count)
	}

	prompt, err := g.prompt.Render(topic, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: generation.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	}

	content, err := generation.Retry(ctx, g.logger, g.policy, g.rnd, func(ctx context.Context) (string, error) {
		return g.call(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	pairs, err := generation.ParsePairs(content, count)
	if err != nil {
		g.logger.WarnContext(ctx, "unparseable OpenAI reply",
			"reply_length", len(content),
			"error", err)
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated vocabulary",
		"topic", topic,
		"requested", count,
		"returned", len(pairs))
	return pairs, nil
}

func (g *Generator) call(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: content filtered", generation.ErrContentBlocked)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: no vocabulary list in response", generation.ErrInvalidResponse)
	}
	return choice.Message.Content, nil
}

// classify marks client errors other than rate limiting as permanent.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: openai rejected credentials (status %d)",
				generation.ErrInvalidConfig, apiErr.HTTPStatusCode)
		case apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 &&
			apiErr.HTTPStatusCode != http.StatusTooManyRequests:
			return fmt.Errorf("%w: openai status %d: %s",
				generation.ErrGenerationFailed, apiErr.HTTPStatusCode, apiErr.Message)
		}
	}
	return fmt.Errorf("openai request failed: %w", err)
}
