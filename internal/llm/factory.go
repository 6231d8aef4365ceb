package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/llm/claude"
	"earnings-sentiment/internal/llm/gemini"
	"earnings-sentiment/internal/llm/llmobs"
	"earnings-sentiment/internal/llm/noop"
	"earnings-sentiment/internal/llm/openai"
	"earnings-sentiment/internal/store"
)

// HealthCheckPrompt is a tiny request used to check the scoring service before a run.
const HealthCheckPrompt = "Reply with the single number 0."

// New builds the Completer named by cfg.LLM.Provider, wrapped for observability.
func New(ctx context.Context, cfg *store.Config) (interfaces.Completer, error) {
	c, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llmobs.Wrap(c, cfg.LLM.Provider, cfg.LLM.Model), nil
}

func newCompleter(ctx context.Context, cfg *store.Config) (interfaces.Completer, error) {
	provider := strings.ToUpper(cfg.LLM.Provider)
	if provider == "NOOP" {
		return noop.New(), nil
	}

	key := os.Getenv(cfg.LLM.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s is not set for llm provider %s", cfg.LLM.APIKeyEnv, provider)
	}

	switch provider {
	case "GROQ", "OPENAI":
		return openai.New(openai.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      key,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		})
	case "CLAUDE":
		return claude.New(claude.Config{
			APIKey:      key,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		})
	case "GEMINI":
		return gemini.New(ctx, gemini.Config{
			APIKey:      key,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		})
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
}

// HealthCheck sends one minimal request and reports whether the service answered.
func HealthCheck(ctx context.Context, c interfaces.Completer) error {
	if _, err := c.Complete(ctx, "", HealthCheckPrompt); err != nil {
		return fmt.Errorf("scoring service unreachable: %w", err)
	}
	return nil
}
