// Package config loads the relay's configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StorageBackend selects which Store implementation the relay boots with.
type StorageBackend string

const (
	StorageBackendFS StorageBackend = "fs"
	StorageBackendS3 StorageBackend = "s3"
)

const (
	defaultListenAddr      = "0.0.0.0:3000"
	defaultRandomURILength = 8
	defaultStorageRoot     = "./data"
)

// Config is the relay's immutable, enumerated set of settings. It is loaded
// once at startup and passed into the HTTP server and the OAuth client as a
// read-only value; nothing in the relay consults the environment again after
// Load returns.
type Config struct {
	ListenAddr string

	AllowedEmails []string

	GitHubClientID     string
	GitHubClientSecret string
	PublicURL          string

	JWTSecret string

	BucketName      string
	RandomURILength int

	StorageBackend StorageBackend
	StorageRoot    string
}

// Load reads the relay's configuration from environment variables. An
// unparsable NANUM_RANDOM_URI_LENGTH is reported on its own; otherwise it
// returns an error naming every missing or invalid setting rather than
// failing on the first one, so a misconfigured deployment can be fixed in a
// single pass.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         getEnvOr("NANUM_LISTEN_ADDR", defaultListenAddr),
		AllowedEmails:      splitAndTrim(os.Getenv("NANUM_ALLOWED_EMAILS")),
		GitHubClientID:     os.Getenv("NANUM_GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("NANUM_GITHUB_CLIENT_SECRET"),
		PublicURL:          strings.TrimRight(os.Getenv("NANUM_PUBLIC_URL"), "/"),
		JWTSecret:          os.Getenv("NANUM_JWT_SECRET"),
		BucketName:         os.Getenv("NANUM_BUCKET_NAME"),
		StorageBackend:     StorageBackend(getEnvOr("NANUM_STORAGE_BACKEND", string(StorageBackendFS))),
		StorageRoot:        getEnvOr("NANUM_STORAGE_ROOT", defaultStorageRoot),
	}

	length := defaultRandomURILength
	if raw := os.Getenv("NANUM_RANDOM_URI_LENGTH"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("NANUM_RANDOM_URI_LENGTH: %w", err)
		}
		length = n
	}
	cfg.RandomURILength = length

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or inconsistent settings.
func (c *Config) Validate() error {
	var errs []string

	if c.ListenAddr == "" {
		errs = append(errs, "listen address is required")
	}
	if len(c.AllowedEmails) == 0 {
		errs = append(errs, "at least one allowed email is required")
	}
	if c.GitHubClientID == "" || c.GitHubClientSecret == "" {
		errs = append(errs, "github oauth client id and secret are required")
	}
	if c.PublicURL == "" {
		errs = append(errs, "public url is required")
	}
	if c.JWTSecret == "" {
		errs = append(errs, "jwt secret is required")
	}
	if c.RandomURILength < 4 {
		errs = append(errs, "random uri length must be at least 4")
	}

	switch c.StorageBackend {
	case StorageBackendFS:
		if c.StorageRoot == "" {
			errs = append(errs, "storage root is required for the fs backend")
		}
	case StorageBackendS3:
		if c.BucketName == "" {
			errs = append(errs, "bucket name is required for the s3 backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid storage backend %q (must be fs or s3)", c.StorageBackend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsAllowed reports whether any of the given emails is present in the
// allowlist.
func (c *Config) IsAllowed(emails []string) bool {
	for _, e := range emails {
		for _, allowed := range c.AllowedEmails {
			if strings.EqualFold(e, allowed) {
				return true
			}
		}
	}
	return false
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
