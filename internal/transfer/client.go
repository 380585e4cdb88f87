package transfer

import (
	"context"

	"github.com/nanum-dev/nanum/internal/metadata"
)

// RelayClient is the narrow surface the upload and download drivers need
// from a relay, independent of transport. internal/relayclient implements
// this over HTTP; tests use an in-memory fake.
type RelayClient interface {
	// CreateMetadata posts a creation request and returns the
	// server-assigned share id.
	CreateMetadata(ctx context.Context, req metadata.CreationRequest) (string, error)

	// PutBlock uploads ciphertext block seq (1-indexed) for share id.
	PutBlock(ctx context.Context, id string, seq int, data []byte) error

	// GetMetadata fetches the descriptor for id. Implementations must
	// return ErrUnknownShare on a 404.
	GetMetadata(ctx context.Context, id string) (metadata.Descriptor, error)

	// GetBlock fetches ciphertext block seq (1-indexed) for share id.
	GetBlock(ctx context.Context, id string, seq int) ([]byte, error)
}
