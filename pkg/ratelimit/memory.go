package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryStore keeps window counters in process memory. Expired counters are
// swept at most once per sweep interval, piggybacking on Incr calls.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*counter
	sweep   rate.Sometimes
	now     func() time.Time
}

type counter struct {
	n       int64
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*counter),
		sweep:   rate.Sometimes{Interval: time.Minute},
		now:     time.Now,
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep.Do(func() { s.purge(now) })

	c, ok := s.entries[key]
	if !ok || !now.Before(c.expires) {
		c = &counter{expires: now.Add(ttl)}
		s.entries[key] = c
	}
	c.n++
	return c.n, nil
}

// purge drops expired counters. Caller holds mu.
func (s *MemoryStore) purge(now time.Time) {
	for k, c := range s.entries {
		if !now.Before(c.expires) {
			delete(s.entries, k)
		}
	}
}

// Len reports the number of live counters.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
