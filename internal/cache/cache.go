// Package cache keeps extracted report tables in Redis, keyed by the
// SHA-256 of the uploaded bytes. Only extraction output is stored.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"resultboard/internal/model"
)

const keyPrefix = "extract:"

// TableCache is implemented by RedisCache and Noop.
type TableCache interface {
	Get(ctx context.Context, key string) (*model.ReportTable, error)
	Set(ctx context.Context, key string, table model.ReportTable) error
}

// Key is the cache key of an upload.
func Key(format string, data []byte) string {
	sum := sha256.Sum256(data)
	return keyPrefix + format + ":" + hex.EncodeToString(sum[:])
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// Get returns nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*model.ReportTable, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	var table model.ReportTable
	if err := json.Unmarshal(raw, &table); err != nil {
		log.Printf("Dropping corrupt cache entry %s: %v", key, err)
		c.Client.Del(ctx, key)
		return nil, nil
	}
	return &table, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, table model.ReportTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.ReportTable, error) { return nil, nil }
func (Noop) Set(context.Context, string, model.ReportTable) error { return nil }

// Connect returns a RedisCache for addr, or Noop when addr is empty.
func Connect(ctx context.Context, addr string, db int, ttl time.Duration) (TableCache, error) {
	if addr == "" {
		log.Println("REDIS_ADDR not set, extraction cache disabled")
		return Noop{}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	log.Printf("Connected to Redis at %s (db %d)", addr, db)
	return NewRedisCache(client, ttl), nil
}
