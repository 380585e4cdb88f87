package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/shareid"
)

// fakeRelayClient is an in-memory RelayClient used by the driver tests. It
// also counts GetBlock calls so tests can assert that a wrong passphrase is
// detected before any block is fetched.
type fakeRelayClient struct {
	mu            sync.Mutex
	metadata      map[string]metadata.Descriptor
	blocks        map[string]map[int][]byte
	getBlockCalls int
}

func newFakeRelayClient() *fakeRelayClient {
	return &fakeRelayClient{
		metadata: make(map[string]metadata.Descriptor),
		blocks:   make(map[string]map[int][]byte),
	}
}

func (f *fakeRelayClient) CreateMetadata(ctx context.Context, req metadata.CreationRequest) (string, error) {
	id, err := shareid.New(8)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[id] = req.IntoDescriptor("creator@example.com")
	f.blocks[id] = make(map[int][]byte)
	return id, nil
}

func (f *fakeRelayClient) PutBlock(ctx context.Context, id string, seq int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blocks[id]; !ok {
		return fmt.Errorf("unknown share %q", id)
	}
	f.blocks[id][seq] = data
	return nil
}

func (f *fakeRelayClient) GetMetadata(ctx context.Context, id string) (metadata.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.metadata[id]
	if !ok {
		return metadata.Descriptor{}, ErrUnknownShare
	}
	return d, nil
}

func (f *fakeRelayClient) GetBlock(ctx context.Context, id string, seq int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getBlockCalls++
	block, ok := f.blocks[id][seq]
	if !ok {
		return nil, &RelayError{StatusCode: 404}
	}
	return block, nil
}
