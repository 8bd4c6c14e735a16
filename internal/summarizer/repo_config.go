package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/github"
)

// FetchRepoConfig reads the repository settings file at ref. A missing file
// yields the defaults.
func FetchRepoConfig(ctx context.Context, client github.Client, repo core.Repository, path, ref string) (*core.RepoConfig, error) {
	content, err := client.GetFileContent(ctx, repo.Owner, repo.Name, path, ref)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return core.DefaultRepoConfig(), nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return config.ParseRepoConfig([]byte(content))
}
