package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"team-ops-system/analytics"

	"github.com/redis/go-redis/v9"
)

const scoutingKeyPrefix = "scouting:report:"

// ReportCache stores rendered scouting reports between requests.
type ReportCache interface {
	Get(ctx context.Context, teamID string) (*analytics.ScoutingReport, bool, error)
	Set(ctx context.Context, teamID string, report *analytics.ScoutingReport) error
	Invalidate(ctx context.Context, teamID string) error
}

// RedisReportCache keeps JSON-encoded reports under a TTL.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

func (c *RedisReportCache) Get(ctx context.Context, teamID string) (*analytics.ScoutingReport, bool, error) {
	raw, err := c.client.Get(ctx, scoutingKeyPrefix+teamID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var report analytics.ScoutingReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, teamID string, report *analytics.ScoutingReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return c.client.Set(ctx, scoutingKeyPrefix+teamID, payload, c.ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context, teamID string) error {
	return c.client.Del(ctx, scoutingKeyPrefix+teamID).Err()
}

// NopReportCache is used when no Redis is configured.
type NopReportCache struct{}

func (NopReportCache) Get(context.Context, string) (*analytics.ScoutingReport, bool, error) {
	return nil, false, nil
}

func (NopReportCache) Set(context.Context, string, *analytics.ScoutingReport) error { return nil }

func (NopReportCache) Invalidate(context.Context, string) error { return nil }
