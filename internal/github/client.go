// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/pr-summarizer/internal/core"
)

// Client defines a set of operations for interacting with the GitHub API,
// focusing on pull requests, commits, comments, and check runs.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]core.CommitRef, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]core.Comment, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]core.Comment, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*core.Commit, error)
	CompareCommits(ctx context.Context, owner, repo, base, head string) (*core.Comparison, error)
	GetComparisonFiles(ctx context.Context, url string) ([]core.FileChange, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error)
	UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// This is what the CLI uses, where an App installation is not available.
func NewPATClient(ctx context.Context, token, baseURL string, logger *slog.Logger) (Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return NewHTTPClient(oauth2.NewClient(ctx, ts), baseURL, logger)
}

// NewHTTPClient builds a client on top of an arbitrary *http.Client.
// baseURL may be empty to use the public API.
func NewHTTPClient(httpClient *http.Client, baseURL string, logger *slog.Logger) (Client, error) {
	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub base URL %q: %w", baseURL, err)
		}
	}
	return &gitHubClient{client: client, logger: logger}, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return pr, nil
}

// ListPullRequestCommits returns the commits of a pull request, oldest first.
// It handles pagination automatically.
func (g *gitHubClient) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]core.CommitRef, error) {
	var all []core.CommitRef
	opts := &github.ListOptions{PerPage: 100}

	for {
		commits, resp, err := g.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list commits for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range commits {
			all = append(all, core.CommitRef{
				SHA:     c.GetSHA(),
				Parents: parentSHAs(c.Parents),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListPullRequestFiles retrieves the list of files modified in a pull request.
// It handles pagination automatically to ensure all files are fetched
// from the GitHub API, which returns a maximum of 100 files per page.
func (g *gitHubClient) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error) {
	var allFiles []core.FileChange
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		allFiles = append(allFiles, toFileChanges(files)...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// ListIssueComments returns the conversation comments of a pull request.
func (g *gitHubClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]core.Comment, error) {
	var all []core.Comment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}

	for {
		comments, resp, err := g.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list issue comments", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range comments {
			all = append(all, core.Comment{ID: c.GetID(), Body: c.GetBody()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListReviewComments returns the line-level review comments of a pull request.
func (g *gitHubClient) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]core.Comment, error) {
	var all []core.Comment
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}

	for {
		comments, resp, err := g.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list review comments", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range comments {
			all = append(all, core.Comment{ID: c.GetID(), Body: c.GetBody()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// GetCommit fetches a single commit. When the response has no files field
// the returned commit keeps a nil Files slice.
func (g *gitHubClient) GetCommit(ctx context.Context, owner, repo, sha string) (*core.Commit, error) {
	rc, _, err := g.client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		g.logger.Error("failed to get commit", "owner", owner, "repo", repo, "sha", sha, "error", err)
		return nil, err
	}

	commit := &core.Commit{
		SHA:     rc.GetSHA(),
		Parents: parentSHAs(rc.Parents),
	}
	if rc.Files != nil {
		commit.Files = toFileChanges(rc.Files)
	}
	return commit, nil
}

// CompareCommits compares base with head.
func (g *gitHubClient) CompareCommits(ctx context.Context, owner, repo, base, head string) (*core.Comparison, error) {
	cmp, _, err := g.client.Repositories.CompareCommits(ctx, owner, repo, base, head, nil)
	if err != nil {
		g.logger.Error("failed to compare commits", "owner", owner, "repo", repo, "base", base, "head", head, "error", err)
		return nil, err
	}
	return &core.Comparison{
		URL:   cmp.GetURL(),
		Files: toFileChanges(cmp.Files),
	}, nil
}

// GetComparisonFiles follows the API URL of a comparison and returns its files.
func (g *gitHubClient) GetComparisonFiles(ctx context.Context, url string) ([]core.FileChange, error) {
	req, err := g.client.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build comparison request: %w", err)
	}

	var cmp github.CommitsComparison
	if _, err := g.client.Do(ctx, req, &cmp); err != nil {
		g.logger.Error("failed to fetch comparison", "url", url, "error", err)
		return nil, err
	}
	return toFileChanges(cmp.Files), nil
}

// GetFileContent returns the decoded content of a file at the given ref.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "ref", ref, "error", err)
		return "", err
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory: %w", path, ErrNotFound)
	}
	return file.GetContent()
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

// CreateCheckRun creates a new check run.
func (g *gitHubClient) CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error) {
	checkRun, _, err := g.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
	if err != nil {
		g.logger.Error("failed to create check run", "owner", owner, "repo", repo, "error", err)
		return nil, err
	}
	return checkRun, nil
}

// UpdateCheckRun updates an existing check run.
func (g *gitHubClient) UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, error) {
	checkRun, _, err := g.client.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, opts)
	if err != nil {
		g.logger.Error("failed to update check run", "owner", owner, "repo", repo, "checkRunID", checkRunID, "error", err)
	}
	return checkRun, err
}

func parentSHAs(parents []*github.Commit) []string {
	shas := make([]string, 0, len(parents))
	for _, p := range parents {
		shas = append(shas, p.GetSHA())
	}
	return shas
}

func toFileChanges(files []*github.CommitFile) []core.FileChange {
	changes := make([]core.FileChange, 0, len(files))
	for _, f := range files {
		changes = append(changes, core.FileChange{
			Filename: f.GetFilename(),
			SHA:      f.GetSHA(),
			Patch:    f.GetPatch(),
		})
	}
	return changes
}
