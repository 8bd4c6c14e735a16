package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type openAICompleter struct {
	chat   model.BaseChatModel
	logger *slog.Logger
}

// NewOpenAICompleter creates a completer backed by the eino OpenAI chat model.
// baseURL may point at any OpenAI compatible endpoint; empty means the public API.
func NewOpenAICompleter(ctx context.Context, apiKey, modelName, baseURL string, logger *slog.Logger) (Completer, error) {
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return newOpenAICompleter(chat, logger), nil
}

func newOpenAICompleter(chat model.BaseChatModel, logger *slog.Logger) *openAICompleter {
	return &openAICompleter{chat: chat, logger: logger}
}

func (c *openAICompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(req.Temperature))

	msg, err := c.chat.Generate(ctx, []*schema.Message{schema.UserMessage(req.Prompt)}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate openai completion: %w", err)
	}

	completion := &Completion{}
	if msg != nil && strings.TrimSpace(msg.Content) != "" {
		completion.Choices = append(completion.Choices, Choice{Text: msg.Content})
	} else {
		c.logger.Warn("openai returned no content", "model", req.Model)
	}
	return completion, nil
}
