// Package cache provides an optional Redis-backed result cache for
// geocode and routing lookups. A cache outage degrades to direct upstream
// calls; it is never surfaced as a request error.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/draymaster/hos-planner-service/internal/logger"
)

// Client wraps a Redis client with string get/set helpers and a bounded TTL.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// New connects to Redis and verifies connectivity with a ping.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logger.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl, log: log}, nil
}

// HealthCheck pings Redis and reports whether the cache is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(pingCtx).Err()
}

// Get returns the cached value for key, or ok=false on miss or any error.
// Errors are logged at warn level and otherwise swallowed.
func (c *Client) Get(ctx context.Context, key string) (value string, ok bool) {
	v, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warnw("cache get failed", "key", key)
		}
		return "", false
	}
	return v, true
}

// Set stores value under key with the client's configured TTL. A failure
// is logged at warn level and otherwise ignored.
func (c *Client) Set(ctx context.Context, key, value string) {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warnw("cache set failed", "key", key)
	}
}

// Close releases the underlying Redis connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
