package llmclient

import (
	"context"
	"errors"
	"fmt"

	"postforge/internal/config"
	"postforge/internal/logger"
)

// ErrBackend marks hard generation-backend failures (auth, rate limit,
// network). Callers distinguish it with errors.Is; no backend retries
// internally — retry policy belongs to the caller.
var ErrBackend = errors.New("generation backend failure")

// Generator is the single contract the pipeline has with any generation
// backend: prompt in, text out.
type Generator interface {
	// Generate produces a completion for the prompt under the given system
	// instructions and output-token budget.
	Generate(ctx context.Context, prompt, system string, maxTokens int32) (string, error)
	// Name identifies the backend for logging.
	Name() string
}

// New constructs the generator selected by configuration. The preferred
// backend is tried first; if it cannot be initialized the other configured
// backend is used as fallback. Construction fails only when no backend is
// usable.
func New(cfg *config.Config) (Generator, error) {
	order := []string{"gemini", "openai"}
	if cfg.AI.Preferred == "openai" {
		order = []string{"openai", "gemini"}
	}

	var firstErr error
	for i, backend := range order {
		gen, err := construct(backend, cfg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if i == 0 {
				logger.Warn("preferred generation backend unavailable, trying fallback",
					"backend", backend, "error", err.Error())
			}
			continue
		}
		return gen, nil
	}
	return nil, fmt.Errorf("no generation backend available: %w", firstErr)
}

func construct(backend string, cfg *config.Config) (Generator, error) {
	switch backend {
	case "gemini":
		return NewGeminiGenerator(cfg.AI.Gemini)
	case "openai":
		return NewOpenAIGenerator(cfg.AI.OpenAI)
	default:
		return nil, fmt.Errorf("unknown generation backend: %s", backend)
	}
}
