package repository

import (
	"context"
	"sync"
	"time"

	"github.com/anonforum/forum/internal/comment"
)

// MemoryRepo is an in-process Store used by unit tests and the "memory"
// driver. Records live in insertion order, which is also id and time order.
type MemoryRepo struct {
	mu     sync.RWMutex
	rows   []comment.Comment
	nextID int64
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, now: time.Now}
}

func (m *MemoryRepo) Append(_ context.Context, content string) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.now().UTC().Truncate(time.Microsecond)
	// keep created_at non-decreasing even if the wall clock steps back
	if n := len(m.rows); n > 0 && created.Before(m.rows[n-1].CreatedAt) {
		created = m.rows[n-1].CreatedAt
	}
	c := comment.Comment{ID: m.nextID, Content: content, CreatedAt: created}
	m.nextID++
	m.rows = append(m.rows, c)
	return &c, nil
}

func (m *MemoryRepo) ListAllOrdered(_ context.Context) ([]*comment.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*comment.Comment, 0, len(m.rows))
	for i := range m.rows {
		c := m.rows[i]
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func (m *MemoryRepo) Close() error { return nil }
