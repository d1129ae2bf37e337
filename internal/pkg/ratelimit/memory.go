package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter. Windows expire lazily
// on access; the sweeper only reclaims memory and is not load-bearing for
// correctness. A multi-instance deployment needs the Redis limiter instead,
// since counters here are not shared across processes.
type MemoryLimiter struct {
	mu          sync.Mutex
	rules       Rules
	defaultRule Rule
	buckets     map[string]*bucket
	now         func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter with per-action rules.
// Actions without an explicit rule fall back to defaultRule.
func NewMemoryLimiter(rules Rules, defaultRule Rule) *MemoryLimiter {
	return &MemoryLimiter{
		rules:       rules,
		defaultRule: defaultRule,
		buckets:     make(map[string]*bucket),
		now:         time.Now,
	}
}

// Allow counts one request against the (action, key) window
func (l *MemoryLimiter) Allow(_ context.Context, action, key string) (Result, error) {
	rule, ok := l.rules[action]
	if !ok {
		rule = l.defaultRule
	}

	now := l.now()
	id := action + ":" + key

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[id]
	if !ok || !now.Before(b.resetAt) {
		// First request in a fresh window (lazy expiry of the old one)
		b = &bucket{resetAt: now.Add(rule.Window)}
		l.buckets[id] = b
	}
	b.count++

	res := Result{
		Limit:   rule.Limit,
		ResetAt: b.resetAt,
	}
	if b.count > rule.Limit {
		res.Allowed = false
		res.Remaining = 0
		res.RetryAfter = b.resetAt.Sub(now)
		return res, nil
	}

	res.Allowed = true
	res.Remaining = rule.Limit - b.count
	return res, nil
}

// Sweep drops expired buckets to reclaim memory
func (l *MemoryLimiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, id)
		}
	}
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}
