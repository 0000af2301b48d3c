package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/decode"
	"github.com/vk/typedconf/internal/render"
	"github.com/vk/typedconf/internal/yamldoc"
)

// Run loads the configured document, instantiates it as the configured root
// type, and writes the canonical rendering of the instance to the output
// writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	raw, err := yamldoc.ParseFile(ctx, a.config.DocumentPath)
	if err != nil {
		return err
	}
	if a.logger.Enabled(ctx, slog.LevelDebug) {
		a.logger.Debug("Document decoded.", "dump", spew.Sdump(raw))
	}

	decoder := decode.New(a.registry)
	instance, err := decoder.Instantiate(ctx, a.config.RootType, raw)
	if err != nil {
		return fmt.Errorf("document %s does not satisfy type '%s': %w", a.config.DocumentPath, a.config.RootType, err)
	}
	a.logger.Debug("Document instantiated.", "type", a.config.RootType)

	fmt.Fprintln(a.outW, render.Instance(instance))
	return nil
}
