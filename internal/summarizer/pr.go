package summarizer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// PRSummarizer writes the pull request level summary from the file and commit
// summaries.
type PRSummarizer struct {
	completer llm.Completer
	prompts   *promptBuilder
	linker    *Linker
	cfg       Config
	logger    *slog.Logger
}

func newPRSummarizer(completer llm.Completer, prompts *promptBuilder, linker *Linker, cfg Config, logger *slog.Logger) *PRSummarizer {
	return &PRSummarizer{completer: completer, prompts: prompts, linker: linker, cfg: cfg, logger: logger}
}

// SummarizePR never fails: problems are reported in the returned text.
func (s *PRSummarizer) SummarizePR(ctx context.Context, files []core.FileSummary, commits []core.CommitSummary) string {
	collapsed := make([]core.CommitSummary, len(commits))
	for i, c := range commits {
		collapsed[i] = core.CommitSummary{SHA: c.SHA, Summary: s.linker.CollapseFileLinks(c.Summary)}
	}

	prompt, err := s.prompts.prPrompt(files, collapsed)
	if err != nil {
		if errors.Is(err, ErrPromptTooLarge) {
			s.logger.Warn("pull request prompt too large", "error", err)
			return PRTooBig
		}
		s.logger.Error("failed to build pull request prompt", "error", err)
		return SummaryUnavailable
	}

	completion, err := s.completer.Complete(ctx, s.cfg.request(prompt))
	if err != nil {
		s.logger.Error("failed to summarize pull request", "error", err)
		return SummaryUnavailable
	}

	text, ok := completion.FirstText()
	if !ok {
		s.logger.Warn("pull request summary came back empty")
		return SummaryUnavailable
	}
	return text
}
