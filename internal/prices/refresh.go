package prices

import (
	"context"
	"log/slog"
)

// WarmupScheduler queues an asynchronous reload of the listing cache.
type WarmupScheduler interface {
	ScheduleWarmup(ctx context.Context, reason string) error
}

// Refresher invalidates the listing cache after catalog writes and, when a
// scheduler is configured, asks the worker to warm it again.
type Refresher struct {
	cache     *Cache
	scheduler WarmupScheduler
	logger    *slog.Logger
}

// NewRefresher constructs a Refresher. scheduler may be nil.
func NewRefresher(cache *Cache, scheduler WarmupScheduler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{cache: cache, scheduler: scheduler, logger: logger}
}

// Refresh drops cached listings. Warmup scheduling failures are logged only,
// the next read repopulates the cache anyway.
func (r *Refresher) Refresh(ctx context.Context, reason string) error {
	if r == nil {
		return nil
	}
	if err := r.cache.Invalidate(ctx); err != nil {
		return err
	}
	if r.scheduler == nil {
		return nil
	}
	if err := r.scheduler.ScheduleWarmup(ctx, reason); err != nil {
		r.logger.Warn("schedule cache warmup", slog.String("reason", reason), slog.Any("error", err))
	}
	return nil
}
