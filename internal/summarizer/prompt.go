package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// promptBuilder renders the summarization prompts and enforces the length bound.
type promptBuilder struct {
	prompts *llm.PromptManager
	variant llm.PromptVariant
	primer  string
	maxLen  int
}

func newPromptBuilder(prompts *llm.PromptManager, variant llm.PromptVariant, maxLen int) (*promptBuilder, error) {
	primer, err := prompts.Render(llm.DiffPrimerPrompt, variant, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render diff primer: %w", err)
	}
	return &promptBuilder{prompts: prompts, variant: variant, primer: primer, maxLen: maxLen}, nil
}

type filePromptData struct {
	Primer   string
	Filename string
	Patch    string
}

type commitPromptData struct {
	Primer string
	Diff   string
}

type prPromptData struct {
	Commits []core.CommitSummary
	Files   []core.FileSummary
}

func (b *promptBuilder) filePrompt(f core.FileChange) (string, error) {
	return b.render(llm.FileSummaryPrompt, filePromptData{Primer: b.primer, Filename: f.Filename, Patch: f.Patch})
}

func (b *promptBuilder) commitPrompt(files []core.FileChange) (string, error) {
	return b.render(llm.CommitSummaryPrompt, commitPromptData{Primer: b.primer, Diff: FormatGitDiff(files)})
}

func (b *promptBuilder) prPrompt(files []core.FileSummary, commits []core.CommitSummary) (string, error) {
	return b.render(llm.PRSummaryPrompt, prPromptData{Commits: commits, Files: files})
}

func (b *promptBuilder) render(key llm.PromptKey, data any) (string, error) {
	prompt, err := b.prompts.Render(key, b.variant, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", key, err)
	}
	if n := utf8.RuneCountInString(prompt); n > b.maxLen {
		return "", fmt.Errorf("%w: %s prompt has %d characters, limit is %d", ErrPromptTooLarge, key, n, b.maxLen)
	}
	return prompt, nil
}

// FormatGitDiff renders files as a unified diff, one blank line between files.
func FormatGitDiff(files []core.FileChange) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("--- a/%s\n+++ b/%s\n%s\n", f.Filename, f.Filename, f.Patch))
	}
	return strings.Join(parts, "\n")
}
