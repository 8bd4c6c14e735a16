package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
	"github.com/sevigo/pr-summarizer/internal/llm"
)

// CommitSummarizer produces per-commit summaries, posts them as marker
// comments and triggers the pull request summary when the head commit is new.
type CommitSummarizer struct {
	client    github.Client
	completer llm.Completer
	prompts   *promptBuilder
	linker    *Linker
	pr        *PRSummarizer
	cfg       Config
	logger    *slog.Logger
}

func newCommitSummarizer(client github.Client, completer llm.Completer, prompts *promptBuilder, linker *Linker, pr *PRSummarizer, cfg Config, logger *slog.Logger) *CommitSummarizer {
	return &CommitSummarizer{
		client:    client,
		completer: completer,
		prompts:   prompts,
		linker:    linker,
		pr:        pr,
		cfg:       cfg,
		logger:    logger,
	}
}

// commitSlot is one commit of the run, in listing order.
type commitSlot struct {
	sha     string
	summary string
	fresh   bool
}

// SummarizeCommits summarizes the commits of a pull request in listing order.
// Commits with a marker comment reuse it. At most cfg.MaxCommits commits are
// summarized fresh; the walk stops at the cap.
func (s *CommitSummarizer) SummarizeCommits(ctx context.Context, repo core.Repository, prNumber int, files []core.FileSummary) (*core.CommitRun, error) {
	pr, err := s.client.GetPullRequest(ctx, repo.Owner, repo.Name, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	headSHA := pr.GetHead().GetSHA()

	comments, err := s.client.ListIssueComments(ctx, repo.Owner, repo.Name, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue comments: %w", err)
	}

	commits, err := s.client.ListPullRequestCommits(ctx, repo.Owner, repo.Name, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	slots, fresh := s.plan(commits, comments)
	if len(slots) < len(commits) {
		s.logger.Info("commit cap reached, rerun to summarize the rest", "pr", prNumber, "cap", s.cfg.MaxCommits, "skipped", len(commits)-len(slots))
	}

	if s.cfg.Concurrency > 1 {
		err = s.generateParallel(ctx, repo, prNumber, slots, headSHA)
	} else {
		err = s.generateSequential(ctx, repo, prNumber, slots, headSHA)
	}
	if err != nil {
		return nil, err
	}

	run := &core.CommitRun{HeadSHA: headSHA, Fresh: fresh}
	var headSummary string
	for _, slot := range slots {
		run.Summaries = append(run.Summaries, core.CommitSummary{SHA: slot.sha, Summary: slot.summary})
		if slot.fresh && slot.sha == headSHA {
			run.HeadSummarized = true
			headSummary = slot.summary
		}
	}

	if !run.HeadSummarized {
		return run, nil
	}

	run.PRSummary = s.pr.SummarizePR(ctx, files, run.Summaries)
	body := FormatHeadComment(headSHA, headSummary, run.PRSummary)
	if err := s.client.CreateComment(ctx, repo.Owner, repo.Name, prNumber, body); err != nil {
		return nil, fmt.Errorf("failed to post head commit summary: %w", err)
	}
	run.PRSummaryPosted = true
	return run, nil
}

// plan walks the commit listing, filling cached summaries and marking the
// commits to summarize, up to the cap.
func (s *CommitSummarizer) plan(commits []core.CommitRef, comments []core.Comment) ([]*commitSlot, int) {
	var slots []*commitSlot
	fresh := 0
	for _, c := range commits {
		if summary, ok := FindCommitSummary(comments, c.SHA); ok {
			slots = append(slots, &commitSlot{sha: c.SHA, summary: summary})
			continue
		}
		slots = append(slots, &commitSlot{sha: c.SHA, fresh: true})
		fresh++
		if fresh >= s.cfg.MaxCommits {
			break
		}
	}
	return slots, fresh
}

// generateSequential summarizes and posts one commit at a time.
func (s *CommitSummarizer) generateSequential(ctx context.Context, repo core.Repository, prNumber int, slots []*commitSlot, headSHA string) error {
	for _, slot := range slots {
		if !slot.fresh {
			continue
		}
		summary, err := s.summarizeCommit(ctx, repo, slot.sha)
		if err != nil {
			return err
		}
		slot.summary = summary
		if err := s.post(ctx, repo, prNumber, slot, headSHA); err != nil {
			return err
		}
	}
	return nil
}

// generateParallel summarizes all fresh commits concurrently, then posts them
// in listing order. On a fatal error the commits listed before the failing one
// are still posted, as in sequential mode, and later ones are dropped.
func (s *CommitSummarizer) generateParallel(ctx context.Context, repo core.Repository, prNumber int, slots []*commitSlot, headSHA string) error {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		failed   = len(slots) // listing index of the first fatal error
		firstErr error
	)
	g.SetLimit(s.cfg.Concurrency)
	for i, slot := range slots {
		if !slot.fresh {
			continue
		}
		g.Go(func() error {
			mu.Lock()
			skip := i > failed
			mu.Unlock()
			if skip {
				return nil
			}

			summary, err := s.summarizeCommit(ctx, repo, slot.sha)
			if err != nil {
				mu.Lock()
				if i < failed {
					failed, firstErr = i, err
				}
				mu.Unlock()
				return err
			}
			slot.summary = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("commit summarization stopped", "pr", prNumber, "sha", slots[failed].sha, "error", firstErr)
	}

	for _, slot := range slots[:failed] {
		if !slot.fresh {
			continue
		}
		if err := s.post(ctx, repo, prNumber, slot, headSHA); err != nil {
			return err
		}
	}
	return firstErr
}

// post publishes a fresh non-head commit summary. The head commit is posted
// later together with the pull request summary.
func (s *CommitSummarizer) post(ctx context.Context, repo core.Repository, prNumber int, slot *commitSlot, headSHA string) error {
	if slot.sha == headSHA {
		return nil
	}
	if err := s.client.CreateComment(ctx, repo.Owner, repo.Name, prNumber, FormatCommitComment(slot.sha, slot.summary)); err != nil {
		return fmt.Errorf("failed to post summary of commit %s: %w", slot.sha, err)
	}
	return nil
}

// summarizeCommit returns the summary of one commit. Only a failure to fetch
// the commit is returned as an error; everything after that degrades to a
// placeholder summary.
func (s *CommitSummarizer) summarizeCommit(ctx context.Context, repo core.Repository, sha string) (string, error) {
	commit, err := s.client.GetCommit(ctx, repo.Owner, repo.Name, sha)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	if commit.Files == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFiles, sha)
	}
	if commit.IsMerge() {
		return MergeCommitNotSummary, nil
	}

	summary, err := s.completeCommit(ctx, repo, sha, commit.Parents[0])
	if err != nil {
		s.logger.Error("failed to summarize commit", "repo", repo.FullName(), "sha", sha, "error", err)
		return SummaryUnavailable, nil
	}
	return summary, nil
}

func (s *CommitSummarizer) completeCommit(ctx context.Context, repo core.Repository, sha, parent string) (string, error) {
	cmp, err := s.client.CompareCommits(ctx, repo.Owner, repo.Name, parent, sha)
	if err != nil {
		return "", fmt.Errorf("failed to compare with parent: %w", err)
	}

	files, err := s.client.GetComparisonFiles(ctx, cmp.URL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch comparison diff: %w", err)
	}

	prompt, err := s.prompts.commitPrompt(files)
	if err != nil {
		return "", err
	}

	s.logger.Debug("requesting commit summary", "sha", sha, "files", len(files))
	completion, err := s.completer.Complete(ctx, s.cfg.request(prompt))
	if err != nil {
		return "", err
	}

	text, ok := completion.FirstText()
	if !ok {
		return SummaryUnavailable, nil
	}
	return s.linker.LinkFileReferences(text, repo, sha, files), nil
}
