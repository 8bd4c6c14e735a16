// Package storage keeps the history of summarization runs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sevigo/pr-summarizer/internal/core"
)

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// Store defines the interface for all database operations.
type Store interface {
	SaveRun(ctx context.Context, run *core.SummaryRun) error
	GetLatestRunForPR(ctx context.Context, repoFullName string, prNumber int) (*core.SummaryRun, error)
	ListRecentRuns(ctx context.Context, limit int) ([]core.SummaryRun, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

const runColumns = `id, repo_full_name, pr_number, head_sha, trigger, files_summarized,
	commits_fresh, commits_cached, pr_summary_posted, error, created_at`

// SaveRun inserts a run record. ID and CreatedAt are filled in when empty.
func (s *postgresStore) SaveRun(ctx context.Context, run *core.SummaryRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO summary_runs (` + runColumns + `)
		VALUES (:id, :repo_full_name, :pr_number, :head_sha, :trigger, :files_summarized,
			:commits_fresh, :commits_cached, :pr_summary_posted, :error, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to insert summary run: %w", err)
	}
	return nil
}

// GetLatestRunForPR retrieves the most recent run for a given pull request.
func (s *postgresStore) GetLatestRunForPR(ctx context.Context, repoFullName string, prNumber int) (*core.SummaryRun, error) {
	query := `SELECT ` + runColumns + `
		FROM summary_runs
		WHERE repo_full_name = $1 AND pr_number = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var run core.SummaryRun
	if err := s.db.GetContext(ctx, &run, query, repoFullName, prNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s#%d", ErrNotFound, repoFullName, prNumber)
		}
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return &run, nil
}

// ListRecentRuns returns the newest runs first.
func (s *postgresStore) ListRecentRuns(ctx context.Context, limit int) ([]core.SummaryRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + runColumns + ` FROM summary_runs ORDER BY created_at DESC LIMIT $1`

	var runs []core.SummaryRun
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// nopStore is used when no database is configured.
type nopStore struct{}

// NewNopStore returns a Store that keeps nothing.
func NewNopStore() Store {
	return nopStore{}
}

func (nopStore) SaveRun(context.Context, *core.SummaryRun) error {
	return nil
}

func (nopStore) GetLatestRunForPR(_ context.Context, repoFullName string, prNumber int) (*core.SummaryRun, error) {
	return nil, fmt.Errorf("%w: %s#%d", ErrNotFound, repoFullName, prNumber)
}

func (nopStore) ListRecentRuns(context.Context, int) ([]core.SummaryRun, error) {
	return nil, nil
}
