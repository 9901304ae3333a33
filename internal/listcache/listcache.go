// internal/listcache/listcache.go

// Package listcache caches the serialized repository listing between sync passes.
// A cache failure is never fatal: reads degrade to a miss and writes are dropped.
package listcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// ListingKey holds the full GET /api/repos response body.
const ListingKey = "portfolio-sync:repos:list"

// Cache stores opaque response bodies.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	Invalidate(ctx context.Context) error
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis parses a redis:// URL and pings the server once.
func NewRedis(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Listing cache read failed", "key", key, "error", err)
		return nil, false
	}
	return body, true
}

func (c *Redis) Set(ctx context.Context, key string, body []byte) {
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("Listing cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops the cached listing. It is called after every sync pass and delete.
func (c *Redis) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, ListingKey).Err(); err != nil {
		return fmt.Errorf("invalidate listing cache: %w", err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}

// Noop is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
func (Noop) Invalidate(context.Context) error           { return nil }
