package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// with more than one kiosk backend instance sharing one budget.
type RedisLimiter struct {
	client      *redis.Client
	rules       Rules
	defaultRule Rule
	prefix      string
}

// NewRedisLimiter creates a Redis-backed limiter with per-action rules
func NewRedisLimiter(client *redis.Client, rules Rules, defaultRule Rule) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		rules:       rules,
		defaultRule: defaultRule,
		prefix:      "rate",
	}
}

// Allow counts one request against the (action, key) window
func (l *RedisLimiter) Allow(ctx context.Context, action, key string) (Result, error) {
	rule, ok := l.rules[action]
	if !ok {
		rule = l.defaultRule
	}

	redisKey := fmt.Sprintf("%s:%s:%s", l.prefix, action, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limiter incr failed: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, rule.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limiter expire failed: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = rule.Window
	}

	res := Result{
		Limit:   rule.Limit,
		ResetAt: time.Now().Add(ttl),
	}
	if int(count) > rule.Limit {
		res.Allowed = false
		res.Remaining = 0
		res.RetryAfter = ttl
		return res, nil
	}

	res.Allowed = true
	res.Remaining = rule.Limit - int(count)
	return res, nil
}
