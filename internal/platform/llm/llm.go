// Package llm selects the vocabulary generator named by the configuration.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/gemini"
	"github.com/phrazzld/vokabel/internal/platform/openai"
)

// Provider names accepted in LLMConfig.Provider.
const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewGenerator builds the configured generator. It returns a nil Generator
// and no error when generation is disabled.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Provider {
	case "", ProviderNone:
		logger.Info("vocabulary generation disabled")
		return nil, nil
	case ProviderGemini:
		g, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("gemini generator initialized")
		return g, nil
	case ProviderOpenAI:
		g, err := openai.NewGenerator(logger, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("openai generator initialized")
		return g, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}
