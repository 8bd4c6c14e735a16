package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the completer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiCompleter struct {
	models       contentGenerator
	defaultModel string
	logger       *slog.Logger
}

// NewGeminiCompleter creates a completer backed by the Gemini API.
func NewGeminiCompleter(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (Completer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiCompleter{models: client.Models, defaultModel: modelName, logger: logger}, nil
}

func (c *geminiCompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	modelName := req.Model
	if modelName == "" {
		modelName = c.defaultModel
	}

	temperature := req.Temperature
	genConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := c.models.GenerateContent(ctx, modelName, genai.Text(req.Prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate gemini completion: %w", err)
	}

	completion := &Completion{}
	if resp == nil {
		return completion, nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			completion.Choices = append(completion.Choices, Choice{Text: text})
		}
	}
	if len(completion.Choices) == 0 {
		c.logger.Warn("gemini returned no candidates", "model", modelName)
	}
	return completion, nil
}
