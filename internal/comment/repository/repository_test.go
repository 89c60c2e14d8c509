package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anonforum/forum/internal/database"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLRepo {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQL(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	r := NewSQLRepo(db)
	t.Cleanup(func() { r.Close() })
	return r
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryRepo(),
		"sqlite": newSQLiteRepo(t),
	}
}

func TestStoreEmptyListIsNotNil(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			list, err := s.ListAllOrdered(context.Background())
			require.NoError(t, err)
			require.NotNil(t, list)
			require.Len(t, list, 0)
		})
	}
}

func TestStoreAppendRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			before := time.Now().UTC().Add(-time.Second)

			c, err := s.Append(ctx, "First comment")
			require.NoError(t, err)
			require.Positive(t, c.ID)
			require.Equal(t, "First comment", c.Content)
			require.Equal(t, time.UTC, c.CreatedAt.Location())
			require.True(t, c.CreatedAt.After(before))

			list, err := s.ListAllOrdered(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			require.Equal(t, c.ID, list[0].ID)
			require.Equal(t, "First comment", list[0].Content)
			require.True(t, c.CreatedAt.Equal(list[0].CreatedAt))
		})
	}
}

func TestStoreListIsOrdered(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 10; i++ {
				_, err := s.Append(ctx, fmt.Sprintf("comment %d", i))
				require.NoError(t, err)
			}
			list, err := s.ListAllOrdered(ctx)
			require.NoError(t, err)
			require.Len(t, list, 10)
			for i := 1; i < len(list); i++ {
				require.Greater(t, list[i].ID, list[i-1].ID)
				require.False(t, list[i].CreatedAt.Before(list[i-1].CreatedAt))
				require.Equal(t, fmt.Sprintf("comment %d", i), list[i].Content)
			}
		})
	}
}

func TestStoreConcurrentAppends(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const n = 40
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				returned = map[int64]string{}
			)
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					content := fmt.Sprintf("concurrent-%02d", i)
					c, err := s.Append(ctx, content)
					if err != nil {
						errs <- err
						return
					}
					if c.Content != content {
						errs <- fmt.Errorf("append %d returned content %q", i, c.Content)
						return
					}
					mu.Lock()
					defer mu.Unlock()
					if prev, dup := returned[c.ID]; dup {
						errs <- fmt.Errorf("id %d returned for %q and %q", c.ID, prev, content)
						return
					}
					returned[c.ID] = content
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}
			require.Len(t, returned, n)

			list, err := s.ListAllOrdered(ctx)
			require.NoError(t, err)
			require.Len(t, list, n)
			for _, c := range list {
				want, ok := returned[c.ID]
				require.True(t, ok, "stored id %d was never returned", c.ID)
				require.Equal(t, want, c.Content, "id %d", c.ID)
				delete(returned, c.ID)
			}
			require.Empty(t, returned)
		})
	}
}

func TestMemoryRepoClockStepBack(t *testing.T) {
	r := NewMemoryRepo()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return t0 }
	first, err := r.Append(context.Background(), "a")
	require.NoError(t, err)

	r.now = func() time.Time { return t0.Add(-time.Hour) }
	second, err := r.Append(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Greater(t, second.ID, first.ID)
}

func TestSQLRepoPingAfterClose(t *testing.T) {
	r := newSQLiteRepo(t)
	require.NoError(t, r.Ping(context.Background()))
	require.NoError(t, r.Close())
	require.Error(t, r.Ping(context.Background()))
}
