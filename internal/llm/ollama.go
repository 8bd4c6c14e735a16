package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/ollama"
)

// newOllamaHTTPClient creates an HTTP client with longer timeouts for Ollama requests.
// Local models can take minutes to answer a large diff.
func newOllamaHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ollamaCompleter falls back to the model it was created with when the request
// names none.
type ollamaCompleter struct {
	llm    llms.Model
	logger *slog.Logger
}

// NewOllamaCompleter creates a completer backed by a local Ollama server.
func NewOllamaCompleter(host, modelName string, timeout time.Duration, logger *slog.Logger) (Completer, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(host),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(newOllamaHTTPClient(timeout)),
		ollama.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &ollamaCompleter{llm: llm, logger: logger}, nil
}

func (c *ollamaCompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(float64(req.Temperature)))

	text, err := c.llm.Call(ctx, req.Prompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ollama completion: %w", err)
	}

	completion := &Completion{}
	if strings.TrimSpace(text) != "" {
		completion.Choices = append(completion.Choices, Choice{Text: text})
	} else {
		c.logger.Warn("ollama returned an empty response")
	}
	return completion, nil
}
