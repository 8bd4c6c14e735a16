package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pr-summarizer/internal/core"
)

const checkRunName = "PR Summarizer"

// StatusUpdater defines the contract for reporting the progress of a summarization
// job as a GitHub Check Run.
type StatusUpdater interface {
	InProgress(ctx context.Context, event *core.GitHubEvent, title, summary string) (int64, error)
	Completed(ctx context.Context, event *core.GitHubEvent, checkRunID int64, conclusion, title, summary string) error
}

type statusUpdater struct {
	client Client
}

// NewStatusUpdater creates and returns a new instance of a statusUpdater.
func NewStatusUpdater(client Client) StatusUpdater {
	return &statusUpdater{client: client}
}

// InProgress creates a new GitHub Check Run with an "in_progress" status.
func (s *statusUpdater) InProgress(ctx context.Context, event *core.GitHubEvent, title, summary string) (int64, error) {
	opts := github.CreateCheckRunOptions{
		Name:    checkRunName,
		HeadSHA: event.HeadSHA,
		Status:  github.Ptr("in_progress"),
		Output: &github.CheckRunOutput{
			Title:   &title,
			Summary: &summary,
		},
	}
	checkRun, err := s.client.CreateCheckRun(ctx, event.RepoOwner, event.RepoName, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to create check run: %w", err)
	}
	return checkRun.GetID(), nil
}

// Completed updates an existing GitHub Check Run to a "completed" status.
func (s *statusUpdater) Completed(ctx context.Context, event *core.GitHubEvent, checkRunID int64, conclusion, title, summary string) error {
	now := time.Now()
	opts := github.UpdateCheckRunOptions{
		Status:      github.Ptr("completed"),
		Conclusion:  &conclusion,
		CompletedAt: &github.Timestamp{Time: now},
		Output: &github.CheckRunOutput{
			Title:   &title,
			Summary: &summary,
		},
	}
	_, err := s.client.UpdateCheckRun(ctx, event.RepoOwner, event.RepoName, checkRunID, opts)
	return err
}

// FormatRunSummary renders a finished run as the markdown body of a check run.
func FormatRunSummary(result *core.RunResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### 📝 Summary run for %s\n\n", shortSHA(result.HeadSHA))
	sb.WriteString("| Stage | Count |\n")
	sb.WriteString("|-------|-------|\n")
	fmt.Fprintf(&sb, "| Files summarized | %d |\n", len(result.Files))
	fmt.Fprintf(&sb, "| Commits (new) | %d |\n", result.FreshCommits)
	fmt.Fprintf(&sb, "| Commits (from comments) | %d |\n", len(result.Commits)-result.FreshCommits)

	if result.PRSummaryPosted {
		sb.WriteString("\nThe pull request summary was posted with the head commit.\n")
	} else {
		sb.WriteString("\nThe head commit already had a summary, no pull request summary was posted.\n")
	}
	return sb.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
