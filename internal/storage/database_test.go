package storage

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/db"
)

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, &core.SummaryRun{}))

	_, err := s.GetLatestRunForPR(ctx, "octo/hello", 7)
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := s.ListRecentRuns(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// TestPostgresStore runs against a real database when PRS_TEST_DATABASE_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PRS_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("PRS_TEST_DATABASE_DSN not set")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, (&db.DB{DB: conn}).RunMigrations())

	s := NewStore(conn)
	ctx := context.Background()
	repo := "octo/store-test-" + t.Name()

	first := &core.SummaryRun{RepoFullName: repo, PRNumber: 1, HeadSHA: "a", Trigger: "opened", CommitsFresh: 2}
	require.NoError(t, s.SaveRun(ctx, first))
	assert.NotEmpty(t, first.ID)

	second := &core.SummaryRun{RepoFullName: repo, PRNumber: 1, HeadSHA: "b", Trigger: "synchronize", Error: "boom"}
	second.CreatedAt = first.CreatedAt.Add(1)
	require.NoError(t, s.SaveRun(ctx, second))

	latest, err := s.GetLatestRunForPR(ctx, repo, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.HeadSHA)
	assert.Equal(t, "boom", latest.Error)

	_, err = s.GetLatestRunForPR(ctx, repo, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := s.ListRecentRuns(ctx, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
}
