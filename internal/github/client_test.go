package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/core"
)

func TestListPullRequestCommits_Paginates(t *testing.T) {
	client := newRecordedClient(t, "list_commits")

	commits, err := client.ListPullRequestCommits(context.Background(), "octo", "hello", 7)
	require.NoError(t, err)

	require.Len(t, commits, 3)
	assert.Equal(t, "1111111111111111111111111111111111111111", commits[0].SHA)
	assert.Equal(t, []string{"0000000000000000000000000000000000000000"}, commits[0].Parents)
	assert.Equal(t, "3333333333333333333333333333333333333333", commits[2].SHA)
	assert.Len(t, commits[2].Parents, 2)
}

func TestGetCommit_KeepsMissingFilesNil(t *testing.T) {
	client := newRecordedClient(t, "get_commit")

	withFiles, err := client.GetCommit(context.Background(), "octo", "hello", "1111111111111111111111111111111111111111")
	require.NoError(t, err)
	require.NotNil(t, withFiles.Files)
	assert.Equal(t, []core.FileChange{{
		Filename: "main.go",
		SHA:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Patch:    "@@ -1 +1 @@\n-old\n+new",
	}}, withFiles.Files)
	assert.False(t, withFiles.IsMerge())

	noFiles, err := client.GetCommit(context.Background(), "octo", "hello", "2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.Nil(t, noFiles.Files)
}

func TestCompareCommits_FollowsComparisonURL(t *testing.T) {
	client := newRecordedClient(t, "compare_commits")
	ctx := context.Background()

	cmp, err := client.CompareCommits(ctx, "octo", "hello",
		"0000000000000000000000000000000000000000", "1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/octo/hello/compare/0000000000000000000000000000000000000000...1111111111111111111111111111111111111111", cmp.URL)

	files, err := client.GetComparisonFiles(ctx, cmp.URL)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "main.go", files[0].Filename)
	assert.Equal(t, "docs/README.md", files[1].Filename)
	assert.Equal(t, "@@ -0,0 +1 @@\n+hello", files[1].Patch)
}

func TestListComments(t *testing.T) {
	client := newRecordedClient(t, "list_comments")
	ctx := context.Background()

	issue, err := client.ListIssueComments(ctx, "octo", "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, []core.Comment{
		{ID: 10, Body: "GPT resumo do sha 1111111111111111111111111111111111111111:\n\nadds a greeting"},
		{ID: 11, Body: "looks good"},
	}, issue)

	review, err := client.ListReviewComments(ctx, "octo", "hello", 7)
	require.NoError(t, err)
	require.Len(t, review, 1)
	assert.Equal(t, "GPT summary of aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa:\nchanges main", review[0].Body)
}

func TestGetFileContent_NotFound(t *testing.T) {
	client := newRecordedClient(t, "get_contents")

	content, err := client.GetFileContent(context.Background(), "octo", "hello", ".pr-summarizer.yml", "main")
	require.NoError(t, err)
	assert.Equal(t, "disabled: true\n", content)

	_, err = client.GetFileContent(context.Background(), "octo", "hello", ".pr-summarizer.yml", "feature")
	require.ErrorIs(t, err, ErrNotFound)
}
