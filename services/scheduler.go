package services

import (
	"context"
	"fmt"
	"time"

	"team-ops-system/logging"

	"github.com/go-co-op/gocron/v2"
)

// StartReportWarmer rebuilds every cached scouting report on a fixed interval,
// slightly shorter than the cache TTL so warm entries rarely expire.
// The returned scheduler must be shut down by the caller.
func (s *ScoutingService) StartReportWarmer(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("warm interval must be positive, got %s", interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			start := time.Now()
			if err := s.Warm(ctx); err != nil {
				logging.Logger().Errorf("[Scheduler] report warm-up failed: %v", err)
				return
			}
			logging.Logger().Debugf("[Scheduler] report warm-up took %s", time.Since(start))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule warm-up: %w", err)
	}

	sched.Start()
	return sched, nil
}

// WarmInterval derives the warm-up period from the cache TTL.
func WarmInterval(ttl time.Duration) time.Duration {
	if ttl <= time.Minute {
		return ttl
	}
	return ttl - ttl/5
}
