// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// SummarizeCommand is the issue comment that requests a new summarization run.
const SummarizeCommand = "/summarize"

// ErrEventIgnored marks webhook payloads that are valid but do not request a run.
var ErrEventIgnored = errors.New("event ignored")

// GitHubEvent represents a simplified, internal view of a GitHub webhook event.
type GitHubEvent struct {
	// Repository details
	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	PRTitle  string
	HeadSHA  string

	// Trigger is the webhook action or command that produced the event.
	Trigger        string
	InstallationID int64
}

// Repository returns the owner/name pair of the event's repository.
func (e *GitHubEvent) Repository() Repository {
	return Repository{Owner: e.RepoOwner, Name: e.RepoName}
}

// Key identifies the pull request the event belongs to.
func (e *GitHubEvent) Key() string {
	return fmt.Sprintf("%s#%d", e.RepoFullName, e.PRNumber)
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into the application's
// internal GitHubEvent representation. Only actions that change the set of commits
// on the pull request produce an event.
func EventFromPullRequest(event *github.PullRequestEvent) (*GitHubEvent, error) {
	switch event.GetAction() {
	case "opened", "synchronize", "reopened":
	default:
		return nil, fmt.Errorf("%w: pull request action %q", ErrEventIgnored, event.GetAction())
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	pr := event.GetPullRequest()
	if pr == nil || pr.GetNumber() <= 0 {
		return nil, fmt.Errorf("invalid pull request in event")
	}

	if event.GetInstallation() == nil || event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	return &GitHubEvent{
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		PRNumber:       pr.GetNumber(),
		PRTitle:        pr.GetTitle(),
		HeadSHA:        pr.GetHead().GetSHA(),
		Trigger:        event.GetAction(),
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}

// EventFromIssueComment transforms a raw GitHub IssueCommentEvent into a GitHubEvent.
// It filters for "/summarize" comments on pull requests.
func EventFromIssueComment(event *github.IssueCommentEvent) (*GitHubEvent, error) {
	if !event.GetIssue().IsPullRequest() {
		return nil, fmt.Errorf("%w: comment is not on a pull request", ErrEventIgnored)
	}

	if event.GetAction() != "" && event.GetAction() != "created" {
		return nil, fmt.Errorf("%w: comment action %q", ErrEventIgnored, event.GetAction())
	}

	if !strings.EqualFold(strings.TrimSpace(event.GetComment().GetBody()), SummarizeCommand) {
		return nil, fmt.Errorf("%w: comment is not a summarize command", ErrEventIgnored)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	prNumber := event.GetIssue().GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	if event.GetInstallation() == nil || event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	return &GitHubEvent{
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		PRNumber:       prNumber,
		PRTitle:        event.GetIssue().GetTitle(),
		Trigger:        SummarizeCommand,
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}
