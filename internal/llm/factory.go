package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/config"
)

// NewCompleter creates the completer for the configured provider.
func NewCompleter(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (Completer, error) {
	switch cfg.Provider {
	case "openai":
		logger.Info("using openai completion provider", "model", cfg.Model)
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai api key is not set")
		}
		return NewOpenAICompleter(ctx, cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL, logger)

	case "gemini":
		logger.Info("using gemini completion provider", "model", cfg.Model)
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini api key is not set")
		}
		return NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.Model, logger)

	case "ollama":
		logger.Info("using ollama completion provider", "model", cfg.Model, "host", cfg.OllamaHost)
		return NewOllamaCompleter(cfg.OllamaHost, cfg.Model, cfg.RequestTimeout, logger)

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
