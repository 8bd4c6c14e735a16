// Package app holds the long-running webhook service and its lifecycle.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/server"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp assembles the application from its wired components.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (a *App) Start() error {
	a.logger.Info("starting PR summarizer",
		"server_port", a.cfg.Server.Port,
		"max_workers", a.cfg.MaxWorkers,
		"provider", a.cfg.AI.Provider,
		"model", a.cfg.AI.Model,
		"dry_run", a.cfg.GitHub.DryRun,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts the server down first, then waits for queued jobs.
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("shutting down PR summarizer")

	serverErr := a.server.Stop(ctx)
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("PR summarizer stopped")
	return nil
}
