// Package summarizer turns the diffs of a pull request into file, commit and
// pull request summaries and posts them as marker comments. The comment list
// of the pull request is the only cache: a unit that already has a marker
// comment is never summarized again.
package summarizer

import (
	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// Config holds the tunables shared by the summarizers.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float32

	// MaxPromptLength bounds every prompt, counted in characters.
	MaxPromptLength int
	// MaxCommits bounds the number of freshly summarized commits per run.
	MaxCommits int
	// Concurrency is the number of commits summarized in parallel.
	Concurrency int
	// HostURL is the web address file links point at.
	HostURL string
	Variant llm.PromptVariant

	// Exclude reports files that never get a file summary. May be nil.
	Exclude func(filename string) bool
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Model:           "gpt-4o-mini",
		MaxTokens:       512,
		Temperature:     0.5,
		MaxPromptLength: 20000,
		MaxCommits:      20,
		Concurrency:     1,
		HostURL:         "https://github.com",
		Variant:         llm.DefaultVariant,
	}
}

// NewConfig builds a summarizer config from the application config.
func NewConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Model = cfg.AI.Model
	c.MaxTokens = cfg.AI.MaxTokens
	c.Temperature = cfg.AI.Temperature
	c.MaxPromptLength = cfg.Summary.MaxPromptLength
	c.MaxCommits = cfg.Summary.MaxCommits
	c.Concurrency = cfg.Summary.Concurrency
	c.HostURL = cfg.Summary.HostURL
	if cfg.Summary.PromptVariant != "" {
		c.Variant = llm.PromptVariant(cfg.Summary.PromptVariant)
	}
	return c
}

// WithRepoConfig returns a copy of c adjusted by the repository's own settings.
func (c Config) WithRepoConfig(rc *core.RepoConfig) Config {
	if rc == nil {
		return c
	}
	if rc.MaxCommits > 0 {
		c.MaxCommits = rc.MaxCommits
	}
	c.Exclude = rc.IsExcluded
	return c
}

func (c Config) request(prompt string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model:       c.Model,
		Prompt:      prompt,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}
