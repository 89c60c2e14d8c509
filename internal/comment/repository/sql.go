package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/anonforum/forum/internal/comment"
	"github.com/jmoiron/sqlx"
)

// SQLRepo stores comments in a SQL table (SQLite or PostgreSQL). The schema
// is created by database.Migrate.
type SQLRepo struct {
	db        *sqlx.DB
	insertSQL string
	now       func() time.Time
}

func NewSQLRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{
		db:        db,
		insertSQL: db.Rebind(`INSERT INTO comments (content, created_at) VALUES (?, ?) RETURNING id`),
		now:       time.Now,
	}
}

func (r *SQLRepo) Append(ctx context.Context, content string) (*comment.Comment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	c := &comment.Comment{
		Content:   content,
		CreatedAt: r.now().UTC().Truncate(time.Microsecond),
	}
	if err := tx.QueryRowxContext(ctx, r.insertSQL, c.Content, c.CreatedAt).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return c, nil
}

func (r *SQLRepo) ListAllOrdered(ctx context.Context) ([]*comment.Comment, error) {
	out := []*comment.Comment{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, content, created_at FROM comments ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	for _, c := range out {
		c.CreatedAt = c.CreatedAt.UTC()
	}
	return out, nil
}

func (r *SQLRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepo) Close() error {
	return r.db.Close()
}
