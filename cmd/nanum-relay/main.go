// Command nanum-relay runs the HTTP relay that mediates between clients and
// the object store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/logging"
	"github.com/nanum-dev/nanum/internal/metrics"
	"github.com/nanum-dev/nanum/internal/relay/auth"
	"github.com/nanum-dev/nanum/internal/relay/config"
	"github.com/nanum-dev/nanum/internal/relay/server"
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
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "nanum-relay",
		Short: "Run the nanum relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(logLevel, logFormat)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	return cmd
}

func run(logLevel, logFormat string) error {
	logger := logging.NewLogger(logLevel, logFormat)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	st, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	githubClient := auth.NewGitHubClient(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.PublicURL+"/auth/authorized")

	m := metrics.Default()
	srv := server.New(cfg, st, jwtService, githubClient, logger, m)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	logger.Info("relay listening",
		logging.KeyComponent, "relay",
	)
	fmt.Printf("nanum-relay listening on %s (storage: %s)\n", cfg.ListenAddr, cfg.StorageBackend)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Printf("\nreceived signal %v, shutting down...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	fmt.Println("relay stopped.")
	return nil
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		return store.NewS3Store(context.Background(), cfg.BucketName)
	default:
		return store.NewFSStore(cfg.StorageRoot)
	}
}
