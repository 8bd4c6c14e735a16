package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/db"
	"github.com/sevigo/pr-summarizer/internal/logger"
	"github.com/sevigo/pr-summarizer/internal/storage"
)

var (
	githubToken string
	configPath  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pr-summarizer",
	Short: "pr-summarizer posts AI summaries of pull request files and commits.",
	Long: `A CLI for the PR summarizer. It summarizes the changed files and the commits
of a GitHub pull request and posts one comment per commit, with a summary of the
whole pull request attached to the head commit.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return loadDotEnv() },
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (overrides PRS_GITHUB_TOKEN and GITHUB_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadDotEnv loads .env from the working directory when present.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// loadConfig reads the configuration, applies the global flags and builds the
// logger. CLI logs go to stderr so stdout carries only results.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w\n\nTip: check config.yaml and the %s_* environment variables", err, config.EnvPrefix)
	}
	if githubToken != "" {
		cfg.GitHub.Token = githubToken
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	var out io.Writer
	if cfg.Logging.Output != "file" {
		out = os.Stderr
	}
	l := logger.NewLogger(cfg.Logging, out)
	return cfg, l, nil
}

// openStore returns the run history store, or a no-op store when the database is disabled.
func openStore(cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	if !cfg.Database.Enabled {
		return storage.NewNopStore(), func() {}, nil
	}
	conn, cleanup, err := db.NewDatabase(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStore(conn.DB), cleanup, nil
}
