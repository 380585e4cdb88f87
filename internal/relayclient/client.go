// Package relayclient implements transfer.RelayClient over the relay's HTTP
// surface, grounded on the session cookie and the metadata/file routes.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/transfer"
)

// Client talks to a single relay base URL over plain net/http.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookie     *http.Cookie
}

// New returns a Client for baseURL (e.g. "https://share.example.com"). If
// sessionCookie is non-empty it is sent as the "session" cookie on the
// session-gated routes this client calls (metadata and block creation).
func New(baseURL, sessionCookie string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if sessionCookie != "" {
		c.cookie = &http.Cookie{Name: "session", Value: sessionCookie}
	}
	return c
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, authenticated bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if authenticated && c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transfer.RelayError{Err: err}
	}
	return resp, nil
}

// CreateMetadata implements transfer.RelayClient.
func (c *Client) CreateMetadata(ctx context.Context, req metadata.CreationRequest) (string, error) {
	raw, err := req.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal creation request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/metadata", bytes.NewReader(raw), true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &transfer.RelayError{StatusCode: resp.StatusCode}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode create-metadata response: %w", err)
	}
	return out.ID, nil
}

// PutBlock implements transfer.RelayClient.
func (c *Client) PutBlock(ctx context.Context, id string, seq int, data []byte) error {
	path := "/api/file/" + id + "/" + strconv.Itoa(seq)
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &transfer.RelayError{StatusCode: resp.StatusCode}
	}
	return nil
}

// GetMetadata implements transfer.RelayClient.
func (c *Client) GetMetadata(ctx context.Context, id string) (metadata.Descriptor, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/metadata/"+id, nil, false)
	if err != nil {
		return metadata.Descriptor{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return metadata.Descriptor{}, transfer.ErrUnknownShare
	}
	if resp.StatusCode != http.StatusOK {
		return metadata.Descriptor{}, &transfer.RelayError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return metadata.Descriptor{}, fmt.Errorf("read metadata response: %w", err)
	}
	return metadata.Unmarshal(raw)
}

// GetBlock implements transfer.RelayClient.
func (c *Client) GetBlock(ctx context.Context, id string, seq int) ([]byte, error) {
	path := "/api/file/" + id + "/" + strconv.Itoa(seq)
	resp, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &transfer.RelayError{StatusCode: http.StatusNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &transfer.RelayError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read block response: %w", err)
	}
	return data, nil
}

// Health calls /api/health and reports whether the relay responded OK.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &transfer.RelayError{StatusCode: resp.StatusCode}
	}
	return nil
}
