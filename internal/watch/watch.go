// Package watch periodically re-evaluates the deployment status until
// the process is interrupted.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/haatos/deckhand/internal/engine"
	"github.com/haatos/deckhand/internal/status"
)

// OnLabel receives each freshly reconciled label.
type OnLabel func(status.Label)

// Run evaluates the status once immediately, then on every interval
// tick, until ctx is cancelled.
func Run(
	ctx context.Context,
	interval time.Duration,
	source engine.StatusSource,
	onLabel OnLabel,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	defer scheduler.Shutdown()

	check := func() {
		onLabel(status.Reconcile(source.Collect(ctx)))
	}
	check()

	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(check),
	); err != nil {
		return err
	}
	scheduler.Start()

	logger.Info("watching deployment status", "interval", interval)
	<-ctx.Done()
	return nil
}
