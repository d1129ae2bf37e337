// Package ratelimit implements a fixed-window request counter keyed by
// (action, identity). Fixed windows reset at the window boundary rather than
// continuously, which admits a known burst-at-boundary property; that is a
// documented tradeoff of the algorithm, not a defect.
package ratelimit

import (
	"context"
	"time"
)

// Rule is the per-action request budget
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result describes the outcome of a single Allow call
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter counts requests per (action, key) pair.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, action, key string) (Result, error)
}

// Rules maps an action name to its budget
type Rules map[string]Rule
