package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/evcharger-search/evcharger-search/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ListingWarmer reloads the price listing into its cache.
type ListingWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheWarmJob handles TaskPricesCacheWarm.
type CacheWarmJob struct {
	Warmer  ListingWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewCacheWarmJob wires dependencies for the warmup handler.
func NewCacheWarmJob(warmer ListingWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheWarmJob {
	return &CacheWarmJob{Warmer: warmer, Logger: logger, Metrics: metrics, Timeout: 30 * time.Second}
}

// Handle processes cache warmup tasks.
func (j *CacheWarmJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Warmer == nil {
		return errors.New("cache warm: handler not configured")
	}
	var payload CacheWarmPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	tracker := j.metrics().Track(TaskPricesCacheWarm)
	logger := j.logger().With(slog.String("reason", payload.Reason), slog.String("request_id", payload.RequestID))

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := j.Warmer.Warm(ctx)
	if err != nil {
		logger.Error("warm price listing", slog.Any("error", err))
		return tracker.End(err)
	}
	logger.Info("warmed price listing", slog.Int("items", n), slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

func (j *CacheWarmJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPricesCacheWarm))
	}
	return slog.Default().With(slog.String("job", TaskPricesCacheWarm))
}

func (j *CacheWarmJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
