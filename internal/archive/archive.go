// Package archive writes point-in-time JSON snapshots of the board to object
// storage. Snapshots are read-only over the comment store.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/anonforum/forum/internal/comment"
)

// Uploader is the subset of storage.MinIOStorage used to write snapshots.
type Uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Downloader reads a snapshot back.
type Downloader interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// Lister is satisfied by repository.Store.
type Lister interface {
	ListAllOrdered(ctx context.Context) ([]*comment.Comment, error)
}

type Entry struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Count       int       `json:"count"`
	Comments    []Entry   `json:"comments"`
}

// Key names a snapshot object by its generation time.
func Key(at time.Time) string {
	return "snapshots/" + at.UTC().Format("20060102T150405Z") + ".json"
}

// Write takes a snapshot of every comment and uploads it. It returns the
// object key and the number of comments archived.
func Write(ctx context.Context, src Lister, dst Uploader, now time.Time) (string, int, error) {
	list, err := src.ListAllOrdered(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("archive list: %w", err)
	}
	snap := Snapshot{GeneratedAt: now.UTC(), Count: len(list), Comments: make([]Entry, 0, len(list))}
	for _, c := range list {
		snap.Comments = append(snap.Comments, Entry{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAtString()})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", 0, fmt.Errorf("archive encode: %w", err)
	}
	key := Key(now)
	if err := dst.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return "", 0, fmt.Errorf("archive upload: %w", err)
	}
	return key, snap.Count, nil
}

// Read downloads and decodes a snapshot.
func Read(ctx context.Context, src Downloader, key string) (*Snapshot, error) {
	rc, err := src.DownloadFile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("archive download: %w", err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return nil, fmt.Errorf("archive decode %s: %w", key, err)
	}
	if snap.Count != len(snap.Comments) {
		return nil, fmt.Errorf("archive %s: count %d does not match %d entries", key, snap.Count, len(snap.Comments))
	}
	return &snap, nil
}
