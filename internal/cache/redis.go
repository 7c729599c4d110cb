package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is not cached
var ErrMiss = errors.New("cache miss")

type Config struct {
	Enabled  bool
	Addr     string
	Password string
	TTL      time.Duration
}

// ScheduleCache stores daily schedules and monthly capacity rows as JSON
type ScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScheduleCache(ctx context.Context, cfg Config) (*ScheduleCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewScheduleCacheWithClient(rdb, cfg.TTL), nil
}

// NewScheduleCacheWithClient wraps an existing client
func NewScheduleCacheWithClient(rdb *redis.Client, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ScheduleCache{client: rdb, ttl: ttl}
}

func DailyKey(date string) string {
	return "schedule:daily:" + date
}

func MonthlyKey(month string) string {
	return "schedule:monthly:" + month
}

// GetJSON decodes the cached value of key into dst
func (c *ScheduleCache) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrMiss
		}
		return fmt.Errorf("cache lookup error: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid cached value for %s: %w", key, err)
	}
	return nil
}

// SetJSON caches value under key for the configured TTL
func (c *ScheduleCache) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateDate drops the daily schedule of date and the metrics of its month.
// date must be YYYY-MM-DD.
func (c *ScheduleCache) InvalidateDate(ctx context.Context, date string) error {
	keys := []string{DailyKey(date)}
	if len(date) >= 7 {
		keys = append(keys, MonthlyKey(date[:7]+"-01"))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *ScheduleCache) Close() error {
	return c.client.Close()
}
