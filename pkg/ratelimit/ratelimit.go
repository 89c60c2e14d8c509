// Package ratelimit implements fixed-window request quotas on top of a
// pluggable counter store.
//
// A window counter is keyed by (route class, client identity, window start).
// The in-process MemoryStore is enough for a single instance; RedisStore shares
// counters between instances so quotas hold cluster-wide.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// CounterStore atomically increments a window counter and returns the new value.
// The first increment of a key sets its expiry to ttl.
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Name labels the store in metrics ("memory", "redis").
	Name() string
}

// Quota is a ceiling of Limit requests per Window. A zero Limit disables it.
type Quota struct {
	Limit  int
	Window time.Duration
}

func PerMinute(n int) Quota { return Quota{Limit: n, Window: time.Minute} }
func PerHour(n int) Quota   { return Quota{Limit: n, Window: time.Hour} }

func (q Quota) String() string {
	return fmt.Sprintf("%d per %s", q.Limit, q.Window)
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Count      int64
	Limit      int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter makes admission decisions against a CounterStore.
type Limiter struct {
	store  CounterStore
	prefix string
	now    func() time.Time
}

type Option func(*Limiter)

// WithPrefix namespaces counter keys (default "rl").
func WithPrefix(p string) Option {
	return func(l *Limiter) { l.prefix = p }
}

// WithClock replaces time.Now; used by tests to cross window boundaries.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func NewLimiter(store CounterStore, opts ...Option) *Limiter {
	l := &Limiter{store: store, prefix: "rl", now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the backing counter store.
func (l *Limiter) Store() CounterStore { return l.store }

// Allow counts one request for identity in class and reports whether it stays
// within q for the window in effect now. Rejected requests are counted too.
func (l *Limiter) Allow(ctx context.Context, identity, class string, q Quota) (Decision, error) {
	if q.Limit <= 0 || q.Window <= 0 {
		return Decision{Allowed: true}, nil
	}
	now := l.now().UTC()
	win := int64(q.Window)
	start := time.Unix(0, now.UnixNano()-now.UnixNano()%win).UTC()
	reset := start.Add(q.Window)

	key := fmt.Sprintf("%s:%s:%s:%d", l.prefix, class, identity, start.Unix())
	cnt, err := l.store.Incr(ctx, key, reset.Sub(now)+time.Second)
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: %w", class, err)
	}

	d := Decision{Allowed: cnt <= int64(q.Limit), Count: cnt, Limit: q.Limit, Reset: reset}
	if !d.Allowed {
		d.RetryAfter = reset.Sub(now)
	}
	return d, nil
}
