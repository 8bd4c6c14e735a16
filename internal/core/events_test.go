package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *github.Repository {
	return &github.Repository{
		Name:     github.Ptr("hello"),
		FullName: github.Ptr("octo/hello"),
		Owner:    &github.User{Login: github.Ptr("octo")},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	newEvent := func(action string) *github.PullRequestEvent {
		return &github.PullRequestEvent{
			Action: github.Ptr(action),
			Repo:   testRepo(),
			PullRequest: &github.PullRequest{
				Number: github.Ptr(7),
				Title:  github.Ptr("Add greeting"),
				Head:   &github.PullRequestBranch{SHA: github.Ptr("abc")},
			},
			Installation: &github.Installation{ID: github.Ptr(int64(99))},
		}
	}

	for _, action := range []string{"opened", "synchronize", "reopened"} {
		t.Run(action, func(t *testing.T) {
			ev, err := EventFromPullRequest(newEvent(action))
			require.NoError(t, err)
			assert.Equal(t, "octo", ev.RepoOwner)
			assert.Equal(t, "hello", ev.RepoName)
			assert.Equal(t, 7, ev.PRNumber)
			assert.Equal(t, "abc", ev.HeadSHA)
			assert.Equal(t, int64(99), ev.InstallationID)
			assert.Equal(t, "octo/hello#7", ev.Key())
		})
	}

	t.Run("closed is ignored", func(t *testing.T) {
		_, err := EventFromPullRequest(newEvent("closed"))
		assert.ErrorIs(t, err, ErrEventIgnored)
	})

	t.Run("missing installation", func(t *testing.T) {
		ev := newEvent("opened")
		ev.Installation = nil
		_, err := EventFromPullRequest(ev)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEventIgnored)
	})
}

func TestEventFromIssueComment(t *testing.T) {
	newEvent := func(body string, onPR bool) *github.IssueCommentEvent {
		issue := &github.Issue{Number: github.Ptr(7), Title: github.Ptr("Add greeting")}
		if onPR {
			issue.PullRequestLinks = &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/octo/hello/pulls/7")}
		}
		return &github.IssueCommentEvent{
			Action:       github.Ptr("created"),
			Issue:        issue,
			Comment:      &github.IssueComment{Body: github.Ptr(body)},
			Repo:         testRepo(),
			Installation: &github.Installation{ID: github.Ptr(int64(99))},
		}
	}

	tests := []struct {
		name    string
		event   *github.IssueCommentEvent
		ignored bool
	}{
		{name: "summarize command", event: newEvent("/summarize", true)},
		{name: "command with whitespace", event: newEvent("  /Summarize\n", true)},
		{name: "other comment", event: newEvent("nice work", true), ignored: true},
		{name: "plain issue", event: newEvent("/summarize", false), ignored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := EventFromIssueComment(tt.event)
			if tt.ignored {
				assert.ErrorIs(t, err, ErrEventIgnored)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, ev.PRNumber)
			assert.Equal(t, SummarizeCommand, ev.Trigger)
			assert.Empty(t, ev.HeadSHA)
		})
	}
}
