package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
)

// dryRunClient reads from GitHub but only logs writes.
type dryRunClient struct {
	Client
	logger *slog.Logger
}

// NewDryRunClient wraps a client so that comments and check runs are logged instead of created.
func NewDryRunClient(inner Client, logger *slog.Logger) Client {
	return &dryRunClient{Client: inner, logger: logger}
}

func (d *dryRunClient) CreateComment(_ context.Context, owner, repo string, number int, body string) error {
	d.logger.Info("dry run: skipping comment", "owner", owner, "repo", repo, "pr", number, "body", body)
	return nil
}

func (d *dryRunClient) CreateCheckRun(_ context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error) {
	d.logger.Info("dry run: skipping check run", "owner", owner, "repo", repo, "name", opts.Name)
	return &github.CheckRun{ID: github.Ptr(int64(0))}, nil
}

func (d *dryRunClient) UpdateCheckRun(_ context.Context, owner, repo string, checkRunID int64, _ github.UpdateCheckRunOptions) (*github.CheckRun, error) {
	d.logger.Info("dry run: skipping check run update", "owner", owner, "repo", repo, "checkRunID", checkRunID)
	return &github.CheckRun{ID: github.Ptr(checkRunID)}, nil
}
