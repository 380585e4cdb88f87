package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/relayclient"
	"github.com/nanum-dev/nanum/internal/transfer"
)

func downloadCmd() *cobra.Command {
	var (
		relayURL   string
		passphrase string
		outDir     string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "download <share-id>",
		Short: "Download and decrypt a file from a relay",
		Long: `Download fetches the metadata descriptor and ciphertext blocks for a
share id, decrypts the filename and contents with the given passphrase, and
writes the plaintext to disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var pass []byte
			if passphrase != "" {
				pass = []byte(passphrase)
			} else {
				var err error
				pass, err = readPassphrase(false)
				if err != nil {
					return err
				}
			}

			return runDownload(cmd.Context(), relayURL, id, pass, outDir, quiet)
		},
	}

	cmd.Flags().StringVar(&relayURL, "relay", "http://localhost:3000", "Relay base URL")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (discouraged: prefer the interactive prompt)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the decrypted file into")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runDownload(ctx context.Context, relayURL, id string, passphrase []byte, outDir string, quiet bool) error {
	client := relayclient.New(relayURL, "")

	desc, err := client.GetMetadata(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch metadata: %w", err)
	}

	tmp, err := os.CreateTemp(outDir, ".nanum-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	dst := &progressTrackingWriter{w: tmp, total: desc.Size, start: time.Now(), quiet: quiet}

	start := time.Now()
	result, err := transfer.Download(ctx, client, id, passphrase, dst)
	finishProgress(quiet)
	closeErr := tmp.Close()
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	finalPath := filepath.Join(outDir, result.Filename)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("write %s: %w", finalPath, err)
	}

	elapsed := time.Since(start)
	fmt.Printf("Downloaded %s (%d bytes) in %s\n", finalPath, result.Size, elapsed.Round(time.Millisecond))
	return nil
}
