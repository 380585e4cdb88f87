package main

import (
	"context"
	"testing"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	return st
}

func putShare(t *testing.T, st store.Store, id string, desc metadata.Descriptor) {
	t.Helper()
	data, err := desc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := st.PutMetadata(context.Background(), id, data); err != nil {
		t.Fatalf("PutMetadata() error = %v", err)
	}
}

func TestRunListEmpty(t *testing.T) {
	st := newTestStore(t)
	if err := runList(context.Background(), st); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
}

func TestRunListWithShares(t *testing.T) {
	st := newTestStore(t)
	putShare(t, st, "abc12345", metadata.Descriptor{
		CreatorEmail: "alice@example.com",
		Size:         2048,
		BlockSize:    1048576,
	})
	putShare(t, st, "def67890", metadata.Descriptor{
		CreatorEmail: "bob@example.com",
		Size:         512,
	})

	if err := runList(context.Background(), st); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
}

func TestRunListToleratesMissingBlockSize(t *testing.T) {
	st := newTestStore(t)
	desc := metadata.Descriptor{CreatorEmail: "carol@example.com", Size: 10}
	if desc.HasBlockSize() {
		t.Fatal("expected zero block size to report HasBlockSize() == false")
	}
	putShare(t, st, "ghi11111", desc)

	if err := runList(context.Background(), st); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
}
