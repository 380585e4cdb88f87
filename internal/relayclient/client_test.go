package relayclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/transfer"
)

func TestCreateMetadataSendsSessionCookie(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "abc12345"})
	}))
	defer srv.Close()

	c := New(srv.URL, "jwt-token")
	id, err := c.CreateMetadata(context.Background(), metadata.CreationRequest{Size: 0, BlockSize: 1048576})
	if err != nil {
		t.Fatalf("CreateMetadata() error = %v", err)
	}
	if id != "abc12345" {
		t.Errorf("id = %q, want %q", id, "abc12345")
	}
	if gotCookie != "jwt-token" {
		t.Errorf("session cookie = %q, want %q", gotCookie, "jwt-token")
	}
}

func TestGetMetadataNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.GetMetadata(context.Background(), "missing")
	if !errors.Is(err, transfer.ErrUnknownShare) {
		t.Fatalf("GetMetadata() error = %v, want ErrUnknownShare", err)
	}
}

func TestGetMetadataDecodesDescriptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"creator_email":"a@b.com","salt":"AQ==","nonce":"Ag==","filename_nonce":"Aw==","filename":"ZmlsZQ==","size":5,"block_size":1048576}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	d, err := c.GetMetadata(context.Background(), "abc12345")
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if d.Size != 5 || d.BlockSize != 1048576 {
		t.Errorf("GetMetadata() = %+v", d)
	}
}

func TestPutAndGetBlock(t *testing.T) {
	stored := map[string][]byte{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			data, _ := io.ReadAll(r.Body)
			stored[r.URL.Path] = data
		case http.MethodGet:
			data, ok := stored[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write(data)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "jwt-token")
	if err := c.PutBlock(context.Background(), "abc12345", 1, []byte("ciphertext")); err != nil {
		t.Fatalf("PutBlock() error = %v", err)
	}

	got, err := c.GetBlock(context.Background(), "abc12345", 1)
	if err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if string(got) != "ciphertext" {
		t.Errorf("GetBlock() = %q, want %q", got, "ciphertext")
	}

	if _, err := c.GetBlock(context.Background(), "abc12345", 2); err == nil {
		t.Error("GetBlock() for missing block error = nil, want non-nil")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}
