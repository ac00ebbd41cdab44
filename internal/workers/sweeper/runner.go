package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner drops entries that expired before now and reports how many.
type Pruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Target is a named store swept on every tick.
type Target struct {
	Name   string
	Pruner Pruner
}

// Observer receives the number of entries removed from a target.
type Observer func(target string, removed int64)

// Run sweeps targets every interval until ctx is cancelled. A failing target
// is logged and retried on the next tick.
func Run(ctx context.Context, interval time.Duration, targets []Target, observe Observer) {
	if interval <= 0 || len(targets) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			SweepOnce(ctx, now, targets, observe)
		}
	}
}

// Start runs the sweeper in its own goroutine. The returned stop cancels it
// and waits for the loop to exit.
func Start(ctx context.Context, interval time.Duration, targets []Target, observe Observer) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, interval, targets, observe)
	}()
	return func() {
		cancel()
		<-done
	}
}

// SweepOnce prunes every target once and returns the total removed.
func SweepOnce(ctx context.Context, now time.Time, targets []Target, observe Observer) int64 {
	log := zerolog.Ctx(ctx)
	var total int64
	for _, t := range targets {
		n, err := t.Pruner.PruneExpired(ctx, now)
		if err != nil {
			log.Warn().Err(err).Str("target", t.Name).Msg("sweep failed")
			continue
		}
		if n > 0 {
			log.Debug().Str("target", t.Name).Int64("removed", n).Msg("swept expired entries")
		}
		if observe != nil {
			observe(t.Name, n)
		}
		total += n
	}
	return total
}
