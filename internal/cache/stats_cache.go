package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"task-tracker/internal/model"
)

const statsKey = "tasktracker:stats"

// StatsCache stores task statistics in redis for a fixed TTL.
// Failures are logged and treated as cache misses.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func NewStatsCache(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, log: log}
}

func (c *StatsCache) Get(ctx context.Context) (*model.Stats, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("stats cache get", "error", err)
		}
		return nil, false
	}
	var stats model.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warnw("stats cache decode", "error", err)
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats *model.Stats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Warnw("stats cache encode", "error", err)
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		c.log.Warnw("stats cache set", "error", err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.log.Warnw("stats cache invalidate", "error", err)
	}
}
