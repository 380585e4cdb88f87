package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"NANUM_ALLOWED_EMAILS":      "alice@example.com, bob@example.com",
		"NANUM_GITHUB_CLIENT_ID":    "client-id",
		"NANUM_GITHUB_CLIENT_SECRET": "client-secret",
		"NANUM_PUBLIC_URL":          "https://nanum.example.com/",
		"NANUM_JWT_SECRET":          "super-secret",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, defaultListenAddr)
	}
	if cfg.RandomURILength != defaultRandomURILength {
		t.Errorf("RandomURILength = %d, want %d", cfg.RandomURILength, defaultRandomURILength)
	}
	if cfg.StorageBackend != StorageBackendFS {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, StorageBackendFS)
	}
	if cfg.PublicURL != "https://nanum.example.com" {
		t.Errorf("PublicURL = %q, want trailing slash trimmed", cfg.PublicURL)
	}
	if len(cfg.AllowedEmails) != 2 {
		t.Fatalf("AllowedEmails = %v, want 2 entries", cfg.AllowedEmails)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for missing required settings")
	}
}

func TestLoadInvalidRandomURILength(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NANUM_RANDOM_URI_LENGTH", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for invalid NANUM_RANDOM_URI_LENGTH")
	}
}

func TestLoadS3BackendRequiresBucket(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NANUM_STORAGE_BACKEND", "s3")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for s3 backend without a bucket name")
	}

	t.Setenv("NANUM_BUCKET_NAME", "nanum-shares")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil once bucket name is set", err)
	}
}

func TestIsAllowed(t *testing.T) {
	cfg := &Config{AllowedEmails: []string{"alice@example.com"}}

	if !cfg.IsAllowed([]string{"bob@example.com", "Alice@Example.com"}) {
		t.Error("IsAllowed() = false, want true for case-insensitive allowlist match")
	}
	if cfg.IsAllowed([]string{"eve@example.com"}) {
		t.Error("IsAllowed() = true, want false when no email matches")
	}
}
