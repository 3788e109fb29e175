package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is a fixed-window counter backed by Redis. It fails open: when
// Redis is unreachable the request is allowed, since throttling is a
// protection, not a correctness requirement of the token protocol.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
	window time.Duration
}

// NewLimiter builds a limiter with a one-minute window.
func NewLimiter(client *redis.Client, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{client: client, logger: logger, window: time.Minute}
}

// Allow increments the caller's window counter and reports whether the call
// is within the limit.
func (l *Limiter) Allow(ctx context.Context, scope, key string, limit int) bool {
	if l == nil || l.client == nil || limit <= 0 {
		return true
	}

	bucket := time.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", scope, key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(limit)
}
