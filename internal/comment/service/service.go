package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonforum/forum/internal/comment"
	"github.com/anonforum/forum/internal/comment/repository"
	"github.com/anonforum/forum/pkg/metrics"
)

// Service defines the comment operations used by the handler layer.
type Service interface {
	// Submit runs a raw submission through validation and sanitization and
	// persists the result. Nothing is stored when any step fails.
	Submit(ctx context.Context, raw *string) (*comment.Comment, error)
	List(ctx context.Context) ([]*comment.Comment, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	MaxLength() int
}

// New returns a Service over store. maxLen <= 0 selects comment.DefaultMaxLength.
func New(store repository.Store, maxLen int) Service {
	if maxLen <= 0 {
		maxLen = comment.DefaultMaxLength
	}
	return &commentService{store: store, maxLen: maxLen}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(), comment.DefaultMaxLength)
}

type commentService struct {
	store  repository.Store
	maxLen int
}

func (s *commentService) MaxLength() int { return s.maxLen }

func (s *commentService) Submit(ctx context.Context, raw *string) (*comment.Comment, error) {
	text, err := comment.Validate(raw, s.maxLen)
	if err != nil {
		rejected(err)
		return nil, err
	}

	clean := strings.TrimSpace(comment.Sanitize(text))
	// stripping can leave nothing; escaping does not count toward the limit
	switch {
	case clean == "":
		rejected(comment.ErrEmptyContent)
		return nil, comment.ErrEmptyContent
	case comment.TextLength(clean) > s.maxLen:
		rejected(comment.ErrContentTooLong)
		return nil, comment.ErrContentTooLong
	}

	c, err := s.store.Append(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", comment.ErrStorageUnavailable, err)
	}
	return c, nil
}

func (s *commentService) List(ctx context.Context) ([]*comment.Comment, error) {
	list, err := s.store.ListAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", comment.ErrStorageUnavailable, err)
	}
	return list, nil
}

func (s *commentService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func rejected(err error) {
	reason := "other"
	switch err {
	case comment.ErrMissingContent:
		reason = "missing"
	case comment.ErrEmptyContent:
		reason = "empty"
	case comment.ErrContentTooLong:
		reason = "too_long"
	}
	metrics.SubmissionsRejected.WithLabelValues(reason).Inc()
}
