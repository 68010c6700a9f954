package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/watch"
)

// Watch runs once, then re-runs on every settled change to the configured
// paths until ctx is done. Load and analysis failures are logged and do not
// stop the loop.
func (a *App) Watch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	if err := a.startHealthCheckServer(ctx); err != nil {
		return err
	}
	defer func() { _ = a.closeHealthCheckServer(ctx) }()

	w, err := watch.New(a.config.Paths, a.loader.Extensions(), a.config.Debounce)
	if err != nil {
		return fmt.Errorf("failed to watch pipelines: %w", err)
	}
	defer w.Close()

	a.runLogged(ctx)
	logger.Info("👀 Watching for changes.", "paths", a.config.Paths)

	return w.Run(ctx, a.runLogged)
}

func (a *App) runLogged(ctx context.Context) {
	if _, err := a.Run(ctx); err != nil && !errors.Is(err, ErrFindings) {
		ctxlog.FromContext(ctx).Error("Analysis run failed.", "error", err)
	}
}
