// Package jobs defines the background tasks run for GitHub events.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
	"github.com/sevigo/pr-summarizer/internal/llm"
	"github.com/sevigo/pr-summarizer/internal/storage"
	"github.com/sevigo/pr-summarizer/internal/summarizer"
)

// ClientFactory returns a GitHub client authenticated for one installation.
type ClientFactory func(installationID int64) (github.Client, error)

// SummarizeJob runs the summarization pipeline for one pull request event.
type SummarizeJob struct {
	cfg       *config.Config
	newClient ClientFactory
	completer llm.Completer
	prompts   *llm.PromptManager
	store     storage.Store
	logger    *slog.Logger
}

// NewSummarizeJob creates a job. newClient is usually an installation client factory.
func NewSummarizeJob(cfg *config.Config, newClient ClientFactory, completer llm.Completer, prompts *llm.PromptManager, store storage.Store, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if newClient == nil {
		panic("client factory cannot be nil")
	}
	if completer == nil {
		panic("completer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if store == nil {
		store = storage.NewNopStore()
	}
	return &SummarizeJob{
		cfg:       cfg,
		newClient: newClient,
		completer: completer,
		prompts:   prompts,
		store:     store,
		logger:    logger,
	}
}

// InstallationClientFactory builds clients from the GitHub App credentials in cfg.
func InstallationClientFactory(cfg *config.Config, logger *slog.Logger) ClientFactory {
	return func(installationID int64) (github.Client, error) {
		return github.CreateInstallationClient(cfg, installationID, logger)
	}
}

// Run executes the summarization job for a given GitHub event.
func (j *SummarizeJob) Run(ctx context.Context, event *core.GitHubEvent) error {
	if err := ValidateEvent(event); err != nil {
		j.logger.Error("input validation failed", "error", err)
		return fmt.Errorf("input validation failed: %w", err)
	}

	logger := j.logger.With("repo", event.RepoFullName, "pr", event.PRNumber, "trigger", event.Trigger)
	logger.Info("starting summarize job")

	client, err := j.newClient(event.InstallationID)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	if j.cfg.GitHub.DryRun {
		client = github.NewDryRunClient(client, logger)
	}

	if event.HeadSHA == "" {
		pr, err := client.GetPullRequest(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
		if err != nil {
			return fmt.Errorf("failed to get PR details: %w", err)
		}
		if pr.GetHead().GetSHA() == "" {
			return fmt.Errorf("PR %d has no valid head SHA", event.PRNumber)
		}
		event.HeadSHA = pr.GetHead().GetSHA()
	}

	status := github.NewStatusUpdater(client)
	checkRunID, err := status.InProgress(ctx, event, "Summarizing", "Summarizing files and commits...")
	if err != nil {
		return fmt.Errorf("failed to set in-progress status: %w", err)
	}

	repoCfg, err := summarizer.FetchRepoConfig(ctx, client, event.Repository(), j.cfg.GitHub.RepoConfigPath, event.HeadSHA)
	if err != nil {
		j.updateStatusOnError(ctx, status, event, checkRunID, "Invalid repository configuration: "+err.Error())
		return err
	}
	if repoCfg.Disabled {
		logger.Info("summaries disabled by repository config")
		if err := status.Completed(ctx, event, checkRunID, "skipped", "Summaries disabled", "Disabled in "+j.cfg.GitHub.RepoConfigPath); err != nil {
			logger.Error("failed to update completion status", "error", err)
		}
		return nil
	}

	pipeline, err := summarizer.NewPipeline(client, j.completer, j.prompts, summarizer.NewConfig(j.cfg).WithRepoConfig(repoCfg), logger)
	if err != nil {
		j.updateStatusOnError(ctx, status, event, checkRunID, "Failed to prepare prompts")
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	repo := event.Repository()
	result, runErr := pipeline.Run(ctx, repo, event.PRNumber)
	if result == nil {
		result = &core.RunResult{Repository: repo, PRNumber: event.PRNumber, HeadSHA: event.HeadSHA}
	}
	j.saveRun(ctx, core.NewSummaryRun(result, event.Trigger, runErr), logger)

	if runErr != nil {
		j.updateStatusOnError(ctx, status, event, checkRunID, "Failed to summarize pull request")
		return fmt.Errorf("failed to summarize pull request: %w", runErr)
	}

	if err := status.Completed(ctx, event, checkRunID, "success", "Summaries posted", github.FormatRunSummary(result)); err != nil {
		logger.Error("failed to update completion status", "error", err)
		return fmt.Errorf("failed to update completion status: %w", err)
	}

	logger.Info("summarize job completed")
	return nil
}

func (j *SummarizeJob) saveRun(ctx context.Context, run *core.SummaryRun, logger *slog.Logger) {
	if err := j.store.SaveRun(ctx, run); err != nil {
		logger.Error("failed to save summary run", "error", err)
	}
}

// updateStatusOnError sends a failure status to GitHub Check Runs.
func (j *SummarizeJob) updateStatusOnError(ctx context.Context, status github.StatusUpdater, event *core.GitHubEvent, checkRunID int64, message string) {
	if err := status.Completed(ctx, event, checkRunID, "failure", "Summary Failed", message); err != nil {
		j.logger.Error("failed to update failure status", "error", err)
	}
}
