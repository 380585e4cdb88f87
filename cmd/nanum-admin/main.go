// Command nanum-admin lists and deletes shares directly against the object
// store, bypassing the relay.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/relay/config"
	"github.com/nanum-dev/nanum/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		backend     string
		storageRoot string
		bucket      string
	)

	cmd := &cobra.Command{
		Use:   "nanum-admin",
		Short: "Administer shares stored by a nanum relay",
	}
	cmd.PersistentFlags().StringVar(&backend, "storage-backend", envOr("NANUM_STORAGE_BACKEND", "fs"), "Storage backend (fs, s3)")
	cmd.PersistentFlags().StringVar(&storageRoot, "storage-root", envOr("NANUM_STORAGE_ROOT", "./data"), "Filesystem storage root (fs backend)")
	cmd.PersistentFlags().StringVar(&bucket, "bucket", envOr("S3_BUCKET_NAME", ""), "Bucket name (s3 backend)")

	openStore := func() (store.Store, error) {
		switch config.StorageBackend(backend) {
		case config.StorageBackendS3:
			if bucket == "" {
				return nil, fmt.Errorf("--bucket (or S3_BUCKET_NAME) is required for the s3 backend")
			}
			return store.NewS3Store(context.Background(), bucket)
		default:
			return store.NewFSStore(storageRoot)
		}
	}

	cmd.AddCommand(listCmd(openStore))
	cmd.AddCommand(deleteCmd(openStore))
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
