// Package llm wraps the completion providers behind one narrow interface and
// renders the embedded prompt templates.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyPrompt is returned when a completion is requested for an empty prompt.
var ErrEmptyPrompt = errors.New("empty prompt")

// CompletionRequest is a single-prompt completion request.
type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Choice is one generated alternative.
type Choice struct {
	Text string
}

// Completion is the provider response. An empty Choices slice is a valid
// response that callers handle themselves.
type Completion struct {
	Choices []Choice
}

// FirstText returns the text of the first choice and whether there was one.
func (c *Completion) FirstText() (string, bool) {
	if c == nil || len(c.Choices) == 0 {
		return "", false
	}
	return c.Choices[0].Text, true
}

// Completer produces text completions for a prompt.
//
//go:generate mockgen -destination=../../mocks/mock_completer.go -package=mocks . Completer
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
