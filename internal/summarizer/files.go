package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// FileSummarizer produces per-file summaries from the review comments and the
// completion service. It never posts comments.
type FileSummarizer struct {
	client    github.Client
	completer llm.Completer
	prompts   *promptBuilder
	cfg       Config
	logger    *slog.Logger
}

func newFileSummarizer(client github.Client, completer llm.Completer, prompts *promptBuilder, cfg Config, logger *slog.Logger) *FileSummarizer {
	return &FileSummarizer{client: client, completer: completer, prompts: prompts, cfg: cfg, logger: logger}
}

// SummarizeFiles returns summaries for the changed files of a pull request in
// listing order. Files with a marker review comment reuse it. At most one file
// is freshly summarized per call; the loop stops right after it.
func (s *FileSummarizer) SummarizeFiles(ctx context.Context, repo core.Repository, prNumber int) ([]core.FileSummary, error) {
	files, err := s.client.ListPullRequestFiles(ctx, repo.Owner, repo.Name, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}

	comments, err := s.client.ListReviewComments(ctx, repo.Owner, repo.Name, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list review comments: %w", err)
	}

	var summaries []core.FileSummary
	for _, f := range files {
		if s.cfg.Exclude != nil && s.cfg.Exclude(f.Filename) {
			s.logger.Debug("file excluded from summaries", "file", f.Filename)
			continue
		}

		if summary, ok := FindFileSummary(comments, f.SHA); ok {
			summaries = append(summaries, core.FileSummary{Filename: f.Filename, Summary: summary})
			continue
		}

		summary, err := s.summarizeFile(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize %s: %w", f.Filename, err)
		}
		summaries = append(summaries, core.FileSummary{Filename: f.Filename, Summary: summary})
		break
	}

	return summaries, nil
}

func (s *FileSummarizer) summarizeFile(ctx context.Context, f core.FileChange) (string, error) {
	prompt, err := s.prompts.filePrompt(f)
	if err != nil {
		return "", err
	}

	s.logger.Debug("requesting file summary", "file", f.Filename, "sha", f.SHA)
	completion, err := s.completer.Complete(ctx, s.cfg.request(prompt))
	if err != nil {
		return "", err
	}

	text, ok := completion.FirstText()
	if !ok {
		return SummaryUnavailable, nil
	}
	return text, nil
}
