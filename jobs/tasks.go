package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPricesCacheWarm reloads the public price listing into the cache.
	TaskPricesCacheWarm = "prices:cache_warm"

	// CacheWarmCron refreshes the listing once a day even without writes.
	CacheWarmCron = "@daily"
)

// CacheWarmPayload describes why a warmup was requested.
type CacheWarmPayload struct {
	RequestID   string    `json:"request_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewCacheWarmTask constructs an Asynq task.
func NewCacheWarmTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(CacheWarmPayload{
		RequestID:   uuid.NewString(),
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPricesCacheWarm, data), nil
}
