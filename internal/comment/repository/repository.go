package repository

import (
	"context"

	"github.com/anonforum/forum/internal/comment"
)

// Store is the append-only comment collection. There is deliberately no
// update or delete.
type Store interface {
	// Append assigns id and creation time and persists the comment atomically.
	Append(ctx context.Context, content string) (*comment.Comment, error)
	// ListAllOrdered returns every comment by created_at ascending, ties by id.
	ListAllOrdered(ctx context.Context) ([]*comment.Comment, error)
	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}
