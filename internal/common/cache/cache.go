// internal/common/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/metrics"
)

// AnswerCache stores fully serialized answer responses keyed by store and
// question. It lives entirely in the HTTP shell; the question pipeline itself
// stays stateless.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// New creates a cache backed by a fresh Redis connection.
func New(address, password string, db int, ttl time.Duration, log logger.Logger) (*AnswerCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return NewWithClient(rdb, ttl, log), nil
}

// NewWithClient wraps an existing Redis client (tests use miniredis/redismock).
func NewWithClient(client *redis.Client, ttl time.Duration, log logger.Logger) *AnswerCache {
	return &AnswerCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "answer-cache"}),
	}
}

// Ping tests the Redis connection.
func (c *AnswerCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *AnswerCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Key derives the cache key for a store/question pair. Questions are
// normalized by trimming and lower-casing before hashing.
func (c *AnswerCache) Key(storeID, question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := sha256.Sum256([]byte(storeID + "|" + normalized))
	return "answer:" + hex.EncodeToString(sum[:])
}

// Get returns the cached serialized response, or nil on miss. Redis errors
// degrade to a miss; the cache must never block an answer.
func (c *AnswerCache) Get(ctx context.Context, storeID, question string) []byte {
	val, err := c.client.Get(ctx, c.Key(storeID, question)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return val
}

// Set stores a serialized response under the store/question key.
func (c *AnswerCache) Set(ctx context.Context, storeID, question string, response []byte) {
	if err := c.client.Set(ctx, c.Key(storeID, question), response, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
