package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/manifest"
	"github.com/vk/typedconf/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry, with
// every type manifest loaded and validated. A schema mistake is a fatal
// startup error and panics; callers recover to present a clean message.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if err := manifest.LoadPaths(ctx, reg, appConfig.TypesPath); err != nil {
		// A failure to load the type manifests is a fatal startup error.
		panic(fmt.Errorf("failed to load type manifests: %w", err))
	}
	logger.Debug("Type registry populated from manifests.", "types", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
