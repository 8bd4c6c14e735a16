//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/pr-summarizer/internal/app"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, configPath string) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}
