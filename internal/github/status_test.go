package github

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/core"
)

type fakeChecksClient struct {
	Client
	created   []github.CreateCheckRunOptions
	updated   []github.UpdateCheckRunOptions
	createErr error
}

func (f *fakeChecksClient) CreateCheckRun(_ context.Context, _, _ string, opts github.CreateCheckRunOptions) (*github.CheckRun, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, opts)
	return &github.CheckRun{ID: github.Ptr(int64(42))}, nil
}

func (f *fakeChecksClient) UpdateCheckRun(_ context.Context, _, _ string, id int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, error) {
	f.updated = append(f.updated, opts)
	return &github.CheckRun{ID: github.Ptr(id)}, nil
}

func TestStatusUpdater(t *testing.T) {
	event := &core.GitHubEvent{RepoOwner: "o", RepoName: "r", PRNumber: 7, HeadSHA: "abc"}

	t.Run("in progress then completed", func(t *testing.T) {
		fake := &fakeChecksClient{}
		s := NewStatusUpdater(fake)

		id, err := s.InProgress(context.Background(), event, "Summarizing", "working")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		require.Len(t, fake.created, 1)
		assert.Equal(t, "abc", fake.created[0].HeadSHA)
		assert.Equal(t, "in_progress", fake.created[0].GetStatus())

		require.NoError(t, s.Completed(context.Background(), event, id, "success", "Done", "ok"))
		require.Len(t, fake.updated, 1)
		assert.Equal(t, "completed", fake.updated[0].GetStatus())
		assert.Equal(t, "success", fake.updated[0].GetConclusion())
	})

	t.Run("create failure is wrapped", func(t *testing.T) {
		s := NewStatusUpdater(&fakeChecksClient{createErr: errors.New("boom")})
		_, err := s.InProgress(context.Background(), event, "t", "s")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create check run")
	})
}

func TestFormatRunSummary(t *testing.T) {
	tests := []struct {
		name     string
		result   *core.RunResult
		contains []string
	}{
		{
			name: "head summarized",
			result: &core.RunResult{
				HeadSHA:         "0123456789abcdef",
				Files:           []core.FileSummary{{Filename: "a.go"}},
				Commits:         []core.CommitSummary{{SHA: "1"}, {SHA: "2"}, {SHA: "3"}},
				FreshCommits:    2,
				PRSummaryPosted: true,
			},
			contains: []string{"0123456", "| Files summarized | 1 |", "| Commits (new) | 2 |", "| Commits (from comments) | 1 |", "was posted"},
		},
		{
			name:     "everything cached",
			result:   &core.RunResult{HeadSHA: "abc", Commits: []core.CommitSummary{{SHA: "abc"}}},
			contains: []string{"abc", "no pull request summary was posted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRunSummary(tt.result)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}
