package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache is a Redis-backed store for JSON-encoded upstream responses. A nil *Cache
// is valid and caches nothing.
type Cache struct {
	client  *redis.Client
	timeout time.Duration
}

// Connect dials Redis and checks the connection. An empty addr disables caching,
// and so does a failed ping: the API keeps working without a cache.
func Connect(ctx context.Context, addr, password string, db int, timeout time.Duration) *Cache {
	if addr == "" {
		logger.Warn("REDIS_ADDR not set, response caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis, response caching disabled", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("Connected to Redis", "addr", addr)
	return New(client, timeout)
}

// New wraps an existing client. Every Redis call is bounded by timeout.
func New(client *redis.Client, timeout time.Duration) *Cache {
	return &Cache{client: client, timeout: timeout}
}

// Close releases the client
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Key joins the parts into a deterministic cache key, e.g. "prayer:12.97:77.59:2:2025-03-02".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// GetOrFetch returns the cached value under key, or calls fetch and caches its
// result for ttl. Cache failures are logged and fall through to fetch; fetch errors
// are returned as is and never cached.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}

	if cached, ok := c.get(ctx, key); ok {
		var value T
		err := json.Unmarshal(cached, &value)
		if err == nil {
			return value, nil
		}
		logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	c.set(ctx, key, value, ttl)
	return value, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("Redis GET command failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Value not cacheable", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Error("Redis SET command failed", "key", key, "error", err)
	}
}
