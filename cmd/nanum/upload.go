package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/relayclient"
	"github.com/nanum-dev/nanum/internal/transfer"
)

const defaultBlockSize = 1048576

func uploadCmd() *cobra.Command {
	var (
		relayURL     string
		blockSizeStr string
		passphrase   string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Encrypt and upload a file to a relay",
		Long: `Upload encrypts a file client-side and streams it to a relay in
fixed-size blocks. The relay never sees the plaintext, the filename, or the
passphrase.

With no file argument, upload prompts interactively for the file and block
size, then reads the passphrase from the terminal without echoing it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				if err := uploadPrompt(&path, &blockSizeStr); err != nil {
					return fmt.Errorf("prompt: %w", err)
				}
			}

			blockSize, err := parseBlockSize(blockSizeStr)
			if err != nil {
				return err
			}

			var pass []byte
			if passphrase != "" {
				pass = []byte(passphrase)
			} else {
				pass, err = readPassphrase(true)
				if err != nil {
					return err
				}
			}

			return runUpload(cmd.Context(), relayURL, path, blockSize, pass, quiet)
		},
	}

	cmd.Flags().StringVar(&relayURL, "relay", "http://localhost:3000", "Relay base URL")
	cmd.Flags().StringVar(&blockSizeStr, "block-size", "", "Block size in bytes (default 1048576)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (discouraged: prefer the interactive prompt)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runUpload(ctx context.Context, relayURL, path string, blockSize int64, passphrase []byte, quiet bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	client := relayclient.New(relayURL, "")

	start := time.Now()
	result, err := transfer.Upload(ctx, client, f, info.Name(), passphrase, info.Size(), blockSize, progressCallback(info.Size(), quiet))
	finishProgress(quiet)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("Uploaded %s in %s\n", info.Name(), elapsed.Round(time.Millisecond))
	fmt.Printf("Share id: %s\n", result.ID)
	fmt.Printf("Download with: nanum download --relay %s %s\n", relayURL, result.ID)
	return nil
}
