package summarizer

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/llm"
	"github.com/sevigo/pr-summarizer/mocks"
)

var testRepo = core.Repository{Owner: "octo", Name: "hello"}

const testPR = 7

// sha returns a deterministic 40 character hex hash.
func sha(n int) string {
	return fmt.Sprintf("%040x", n)
}

type fixture struct {
	client    *mocks.MockClient
	completer *mocks.MockCompleter
	pipeline  *Pipeline
	cfg       Config
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)

	f := &fixture{
		client:    mocks.NewMockClient(ctrl),
		completer: mocks.NewMockCompleter(ctrl),
		cfg:       cfg,
	}
	f.pipeline, err = NewPipeline(f.client, f.completer, prompts, cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return f
}

func (f *fixture) builder(t *testing.T) *promptBuilder {
	t.Helper()
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)
	b, err := newPromptBuilder(prompts, f.cfg.Variant, f.cfg.MaxPromptLength)
	require.NoError(t, err)
	return b
}

// expectPR stubs the pull request lookup, comment listing and commit listing.
func (f *fixture) expectPR(head string, comments []core.Comment, commits ...string) {
	f.client.EXPECT().GetPullRequest(gomock.Any(), "octo", "hello", testPR).
		Return(&github.PullRequest{Head: &github.PullRequestBranch{SHA: github.Ptr(head)}}, nil)
	f.client.EXPECT().ListIssueComments(gomock.Any(), "octo", "hello", testPR).Return(comments, nil)

	refs := make([]core.CommitRef, 0, len(commits))
	for _, c := range commits {
		refs = append(refs, core.CommitRef{SHA: c})
	}
	f.client.EXPECT().ListPullRequestCommits(gomock.Any(), "octo", "hello", testPR).Return(refs, nil)
}

// expectDiff stubs the fetches behind a regular single-parent commit.
func (f *fixture) expectDiff(commitSHA string, files ...core.FileChange) {
	parent := "p" + commitSHA[1:]
	f.client.EXPECT().GetCommit(gomock.Any(), "octo", "hello", commitSHA).
		Return(&core.Commit{SHA: commitSHA, Parents: []string{parent}, Files: files}, nil)
	url := "https://api.github.com/repos/octo/hello/compare/" + parent + "..." + commitSHA
	f.client.EXPECT().CompareCommits(gomock.Any(), "octo", "hello", parent, commitSHA).
		Return(&core.Comparison{URL: url, Files: files}, nil)
	f.client.EXPECT().GetComparisonFiles(gomock.Any(), url).Return(files, nil)
}

func completion(texts ...string) *llm.Completion {
	c := &llm.Completion{}
	for _, t := range texts {
		c.Choices = append(c.Choices, llm.Choice{Text: t})
	}
	return c
}

var mainGo = core.FileChange{Filename: "cmd/app/main.go", SHA: "b1", Patch: "@@ -1 +1 @@\n-old\n+new"}
