package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anonforum/forum/internal/archive"
	"github.com/anonforum/forum/internal/server"
	"github.com/anonforum/forum/internal/storage"
	"github.com/spf13/cobra"
)

// NewArchiveCmd uploads a JSON snapshot of every comment to MinIO.
func NewArchiveCmd() *cobra.Command {
	var (
		linkTTL time.Duration
		verify  bool
	)
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Upload a JSON snapshot of all comments to object storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Archive.Enabled() {
				return fmt.Errorf("MINIO_ENDPOINT is not set")
			}

			store, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			bucket, err := storage.NewMinIOStorage(ctx, &cfg.Archive)
			if err != nil {
				return err
			}
			key, n, err := archive.Write(ctx, store, bucket, time.Now())
			if err != nil {
				return err
			}
			if verify {
				if _, err := archive.Read(ctx, bucket, key); err != nil {
					return err
				}
			}

			out := map[string]interface{}{"bucket": cfg.Archive.Bucket, "key": key, "comments": n}
			if linkTTL > 0 {
				link, err := bucket.GetPresignedURL(ctx, key, linkTTL)
				if err != nil {
					return err
				}
				out["url"] = link
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().DurationVar(&linkTTL, "link-ttl", 0, "also print a presigned download URL valid for this long")
	cmd.Flags().BoolVar(&verify, "verify", true, "read the snapshot back after upload")
	return cmd
}
