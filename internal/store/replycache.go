// internal/store/replycache.go
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"leadbot/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const replyCachePrefix = "replycache:"

// RedisReplyCache stores recent replies keyed by a hash of the session
// context and the user message, so repeating the same message in the same
// conversation position skips the model call.
type RedisReplyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisReplyCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisReplyCache {
	return &RedisReplyCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "reply-cache"}),
	}
}

func cacheKey(contextHash, userMessage string) string {
	sum := sha256.Sum256([]byte(contextHash + "|" + userMessage))
	return replyCachePrefix + hex.EncodeToString(sum[:])
}

func (c *RedisReplyCache) Get(ctx context.Context, contextHash, userMessage string) (string, bool) {
	val, err := c.client.Get(ctx, cacheKey(contextHash, userMessage)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisReplyCache) Set(ctx context.Context, contextHash, userMessage, reply string) error {
	if err := c.client.Set(ctx, cacheKey(contextHash, userMessage), reply, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache reply: %w", err)
	}
	return nil
}
