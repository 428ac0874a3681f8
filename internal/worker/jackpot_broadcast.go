package worker

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// JackpotBroadcastJob republishes every wheel's current escrow so feed
// clients, caches and gauges converge even without spins.
type JackpotBroadcastJob struct {
	wheels    []string
	source    cache.JackpotSource
	publisher event.Bus
	now       func() time.Time
}

// NewJackpotBroadcastJob creates the job for the given wheels
func NewJackpotBroadcastJob(wheels []string, source cache.JackpotSource, publisher event.Bus) *JackpotBroadcastJob {
	return &JackpotBroadcastJob{
		wheels:    wheels,
		source:    source,
		publisher: publisher,
		now:       time.Now,
	}
}

// Name implements Job
func (j *JackpotBroadcastJob) Name() string { return JobNameJackpotBroadcast }

// Process reads and publishes each wheel; one failing wheel does not stop
// the others.
func (j *JackpotBroadcastJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	var errs []error
	for _, wheelID := range j.wheels {
		pool, err := j.source.GetJackpot(ctx, wheelID)
		if err != nil {
			log.Warn(LogMsgJackpotBroadcastFailed, "wheel_id", wheelID, "error", err)
			errs = append(errs, err)
			continue
		}
		if err := j.publisher.Publish(ctx, event.NewJackpotUpdatedEvent(pool, j.now())); err != nil {
			log.Warn(LogMsgJackpotBroadcastFailed, "wheel_id", wheelID, "error", err)
			errs = append(errs, err)
		}
	}
	log.Debug(LogMsgJackpotBroadcast, "wheels", len(j.wheels), "failed", len(errs))
	return errors.Join(errs...)
}
