package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// Pipeline runs the file stage and then the commit stage over one pull request.
type Pipeline struct {
	files   *FileSummarizer
	commits *CommitSummarizer
	logger  *slog.Logger
}

// NewPipeline wires the three summarizers around one client and completer.
func NewPipeline(client github.Client, completer llm.Completer, prompts *llm.PromptManager, cfg Config, logger *slog.Logger) (*Pipeline, error) {
	builder, err := newPromptBuilder(prompts, cfg.Variant, cfg.MaxPromptLength)
	if err != nil {
		return nil, err
	}
	linker := NewLinker(cfg.HostURL)
	pr := newPRSummarizer(completer, builder, linker, cfg, logger)

	return &Pipeline{
		files:   newFileSummarizer(client, completer, builder, cfg, logger),
		commits: newCommitSummarizer(client, completer, builder, linker, pr, cfg, logger),
		logger:  logger,
	}, nil
}

// Files exposes the file stage on its own.
func (p *Pipeline) Files() *FileSummarizer {
	return p.files
}

// Run summarizes a pull request. A failing file stage is logged and the run
// continues without file summaries; a failing commit stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, repo core.Repository, prNumber int) (*core.RunResult, error) {
	logger := p.logger.With("repo", repo.FullName(), "pr", prNumber)
	logger.Info("summarizing pull request")

	files, err := p.files.SummarizeFiles(ctx, repo, prNumber)
	if err != nil {
		logger.Error("file summaries failed, continuing without them", "error", err)
		files = nil
	}

	run, err := p.commits.SummarizeCommits(ctx, repo, prNumber, files)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize commits: %w", err)
	}

	logger.Info("pull request summarized",
		"files", len(files),
		"commits", len(run.Summaries),
		"fresh", run.Fresh,
		"pr_summary_posted", run.PRSummaryPosted,
	)

	return &core.RunResult{
		Repository:      repo,
		PRNumber:        prNumber,
		HeadSHA:         run.HeadSHA,
		Files:           files,
		Commits:         run.Summaries,
		FreshCommits:    run.Fresh,
		PRSummary:       run.PRSummary,
		PRSummaryPosted: run.PRSummaryPosted,
	}, nil
}
