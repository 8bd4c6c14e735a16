// Package wire assembles the webhook service with google/wire.
package wire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/pr-summarizer/internal/app"
	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/db"
	"github.com/sevigo/pr-summarizer/internal/jobs"
	"github.com/sevigo/pr-summarizer/internal/llm"
	"github.com/sevigo/pr-summarizer/internal/logger"
	"github.com/sevigo/pr-summarizer/internal/server"
	"github.com/sevigo/pr-summarizer/internal/storage"
)

// AppSet provides everything InitializeApp needs besides the context and config path.
var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	jobs.NewSummarizeJob,
	llm.NewPromptManager,
	provideConfig,
	provideLoggerConfig,
	provideSlogLogger,
	provideCompleter,
	provideStore,
	provideClientFactory,
	provideDispatcher,
)

func provideConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideSlogLogger(loggerConfig logger.Config) *slog.Logger {
	l := logger.NewLogger(loggerConfig, nil)
	slog.SetDefault(l)
	return l
}

func provideCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Completer, error) {
	return llm.NewCompleter(ctx, cfg.AI, logger)
}

// provideStore connects to postgres when run history is enabled.
func provideStore(cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	if !cfg.Database.Enabled {
		logger.Info("run history disabled, using no-op store")
		return storage.NewNopStore(), func() {}, nil
	}
	conn, cleanup, err := db.NewDatabase(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStore(conn.DB), cleanup, nil
}

func provideClientFactory(cfg *config.Config, logger *slog.Logger) jobs.ClientFactory {
	return jobs.InstallationClientFactory(cfg, logger)
}

func provideDispatcher(cfg *config.Config, job core.Job, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, cfg.QueueSize, logger)
}
