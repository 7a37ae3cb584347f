package player

import (
	"context"
	"log/slog"
	"time"
)

type SaveFunc func(ctx context.Context, position float64) error

// Checkpointer saves the playback position on a fixed interval while running
// and once more when stopped. A zero position is never saved.
type Checkpointer struct {
	log      *slog.Logger
	interval time.Duration
	position func() float64
	save     SaveFunc

	ticks <-chan time.Time
}

func NewCheckpointer(log *slog.Logger, interval time.Duration, position func() float64, save SaveFunc) *Checkpointer {
	if interval <= 0 {
		interval = DefaultCheckpointInterval * time.Second
	}
	return &Checkpointer{
		log:      log,
		interval: interval,
		position: position,
		save:     save,
	}
}

// Run blocks until ctx is done. Save errors are logged and do not stop the loop.
func (c *Checkpointer) Run(ctx context.Context) {
	const op = "player.Checkpointer.Run"
	log := c.log.With("op", op)
	ticks := c.ticks
	if ticks == nil {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			c.checkpoint(context.WithoutCancel(ctx), log)
			return
		case <-ticks:
			c.checkpoint(ctx, log)
		}
	}
}

func (c *Checkpointer) checkpoint(ctx context.Context, log *slog.Logger) {
	pos := c.position()
	if pos == 0 {
		return
	}
	if err := c.save(ctx, pos); err != nil {
		log.Warn("failed to save progress", "position", pos, "errMsg", err.Error())
	}
}
