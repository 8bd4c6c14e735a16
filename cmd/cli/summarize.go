package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
	"github.com/sevigo/pr-summarizer/internal/gitutil"
	"github.com/sevigo/pr-summarizer/internal/llm"
	"github.com/sevigo/pr-summarizer/internal/storage"
	"github.com/sevigo/pr-summarizer/internal/summarizer"
)

// cliTrigger is recorded as the trigger of runs started from the command line.
const cliTrigger = "cli"

var summarizeOpts struct {
	dryRun      bool
	render      bool
	repoConfig  string
	concurrency int
	maxCommits  int
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [pr-url]",
	Short: "Summarize the files and commits of a pull request and post the comments",
	Long: `Summarize the files and commits of a GitHub pull request.

Every commit without a summary comment gets one. When the head commit is
summarized, the comment also carries a summary of the whole pull request.
Commits that already have a summary comment are reused, so running the command
again only summarizes what is new.

Examples:
  pr-summarizer summarize https://github.com/owner/repo/pull/123
  pr-summarizer summarize --dry-run --render owner/repo#123
  pr-summarizer summarize --max-commits 5 --concurrency 3 owner/repo#123`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	f := summarizeCmd.Flags()
	f.BoolVar(&summarizeOpts.dryRun, "dry-run", false, "log the comments instead of posting them")
	f.BoolVar(&summarizeOpts.render, "render", false, "print the summaries rendered as markdown")
	f.StringVar(&summarizeOpts.repoConfig, "repo-config", "", "local repository config file (default: the repository's .pr-summarizer.yml at the head commit)")
	f.IntVar(&summarizeOpts.concurrency, "concurrency", 0, "number of commits summarized in parallel")
	f.IntVar(&summarizeOpts.maxCommits, "max-commits", 0, "maximum number of commits summarized in this run")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	repo, number, err := gitutil.ParsePullRequestURL(args[0])
	if err != nil {
		return fmt.Errorf("%w\n\nExpected format: https://github.com/owner/repo/pull/123 or owner/repo#123", err)
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.cleanup()

	titleColor.Printf("📝 Summarizing %s#%d\n", repo.FullName(), number)
	if s.cfg.GitHub.DryRun {
		warnColor.Println("   dry run: nothing will be posted")
	}

	repoCfg, err := s.repoConfig(ctx, repo, number)
	if err != nil {
		return err
	}
	if repoCfg.Disabled {
		warnColor.Println("Summaries are disabled in the repository config.")
		return nil
	}

	pipeline, err := s.pipeline(repoCfg)
	if err != nil {
		return err
	}

	result, runErr := pipeline.Run(ctx, repo, number)
	record := result
	if record == nil {
		record = &core.RunResult{Repository: repo, PRNumber: number}
	}
	if err := s.store.SaveRun(ctx, core.NewSummaryRun(record, cliTrigger, runErr)); err != nil {
		s.logger.Error("failed to save summary run", "error", err)
	}
	if runErr != nil {
		return runErr
	}

	printRunResult(result, summarizeOpts.render, time.Since(start))
	return nil
}

// session holds what the summarize and files commands share.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    github.Client
	completer llm.Completer
	prompts   *llm.PromptManager
	store     storage.Store
	cleanup   func()
}

func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if summarizeOpts.dryRun {
		cfg.GitHub.DryRun = true
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Summary.Concurrency = summarizeOpts.concurrency
	}
	if cmd.Flags().Changed("max-commits") {
		cfg.Summary.MaxCommits = summarizeOpts.maxCommits
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateCLI(); err != nil {
		return nil, err
	}

	client, err := github.NewPATClient(ctx, cfg.GitHub.Token, cfg.GitHub.APIBaseURL, logger)
	if err != nil {
		return nil, err
	}
	if cfg.GitHub.DryRun {
		client = github.NewDryRunClient(client, logger)
	}

	completer, err := llm.NewCompleter(ctx, cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	prompts, err := llm.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		completer: completer,
		prompts:   prompts,
		store:     store,
		cleanup:   cleanup,
	}, nil
}

// repoConfig loads --repo-config when given, otherwise the repository's own
// settings file at the pull request head.
func (s *session) repoConfig(ctx context.Context, repo core.Repository, number int) (*core.RepoConfig, error) {
	if summarizeOpts.repoConfig != "" {
		rc, err := config.LoadRepoConfig(summarizeOpts.repoConfig)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("repository config %s does not exist", summarizeOpts.repoConfig)
		}
		return rc, err
	}

	pr, err := s.client.GetPullRequest(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR: %w\n\nTip: check that the PR exists and your token has access", err)
	}
	return summarizer.FetchRepoConfig(ctx, s.client, repo, s.cfg.GitHub.RepoConfigPath, pr.GetHead().GetSHA())
}

func (s *session) pipeline(repoCfg *core.RepoConfig) (*summarizer.Pipeline, error) {
	return summarizer.NewPipeline(s.client, s.completer, s.prompts, summarizer.NewConfig(s.cfg).WithRepoConfig(repoCfg), s.logger)
}
