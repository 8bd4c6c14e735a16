package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/config"
	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/server"
)

type stopRecorder struct{ stopped bool }

func (d *stopRecorder) Dispatch(context.Context, *core.GitHubEvent) error { return nil }
func (d *stopRecorder) Stop()                                             { d.stopped = true }

func TestAppStopDrainsDispatcher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cfg := &config.Config{}
	d := &stopRecorder{}

	a := NewApp(cfg, server.NewServer(cfg, d, logger), d, logger)
	require.NoError(t, a.Stop(context.Background()))
	assert.True(t, d.stopped)
}
