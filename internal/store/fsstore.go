package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore is a filesystem-rooted Store. Object keys are mapped directly to
// paths under root, mirroring the S3 backend's key layout so the same admin
// tooling works against either. It needs no network and is used for local
// development and throughout the test suite.
type FSStore struct {
	root string
}

// NewFSStore returns a Store rooted at dir, creating it if necessary.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, metadataPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, blockPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("create block dir: %w", err)
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}

func (s *FSStore) PutMetadata(ctx context.Context, id string, data []byte) error {
	if err := writeFileAtomic(s.path(metadataKey(id)), data); err != nil {
		return fmt.Errorf("put metadata %s: %w", id, err)
	}
	return nil
}

func (s *FSStore) GetMetadata(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(metadataKey(id)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", id, err)
	}
	return data, nil
}

func (s *FSStore) PutBlock(ctx context.Context, id string, seq int, data []byte) error {
	if err := writeFileAtomic(s.path(blockKey(id, seq)), data); err != nil {
		return fmt.Errorf("put block %s/%d: %w", id, seq, err)
	}
	return nil
}

func (s *FSStore) GetBlock(ctx context.Context, id string, seq int) ([]byte, error) {
	data, err := os.ReadFile(s.path(blockKey(id, seq)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get block %s/%d: %w", id, seq, err)
	}
	return data, nil
}

func (s *FSStore) ListShares(ctx context.Context) ([]string, error) {
	dir := filepath.Join(s.root, metadataPrefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FSStore) DeleteShare(ctx context.Context, id string) error {
	if err := os.Remove(s.path(metadataKey(id))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete metadata %s: %w", id, err)
	}

	dir := filepath.Join(s.root, blockPrefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list blocks for %s: %w", id, err)
	}

	prefix := id + "."
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete block %s: %w", e.Name(), err)
		}
	}

	return nil
}
