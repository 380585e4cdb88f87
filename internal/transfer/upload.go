package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/ncrypto"
)

// UploadResult reports the outcome of a successful upload.
type UploadResult struct {
	ID        string
	BytesSent int64
}

// ProgressFunc is called after each block is sent with the cumulative
// plaintext byte count sent so far. It may be nil.
type ProgressFunc func(sent int64)

// Upload draws fresh per-share secrets, seals the filename and src's
// contents under the BE32 block streamer, and drives the relay's chunked
// create-then-upload-blocks protocol described in the component design.
// size must be the exact byte length src will yield; callers read it from
// the filesystem before streaming begins.
func Upload(ctx context.Context, client RelayClient, src io.Reader, filename string, passphrase []byte, size, blockSize int64, onProgress ProgressFunc) (UploadResult, error) {
	if blockSize <= 0 {
		return UploadResult{}, fmt.Errorf("transfer: block size must be positive")
	}

	secrets, err := ncrypto.NewShareSecrets()
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	key, err := ncrypto.DeriveKey(passphrase, secrets.Salt[:])
	if err != nil {
		return UploadResult{}, fmt.Errorf("derive key: %w", err)
	}

	sealedFilename, err := ncrypto.SealFilename(key, secrets.FilenameNonce, []byte(filename))
	if err != nil {
		return UploadResult{}, fmt.Errorf("seal filename: %w", err)
	}

	req := metadata.CreationRequest{
		Salt:          secrets.Salt[:],
		Nonce:         secrets.StreamPrefix[:],
		FilenameNonce: secrets.FilenameNonce[:],
		Filename:      sealedFilename,
		Size:          size,
		BlockSize:     blockSize,
	}

	id, err := client.CreateMetadata(ctx, req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create metadata: %w", asRelayError(err))
	}

	sealer, err := ncrypto.NewSealer(key, secrets.StreamPrefix)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create sealer: %w", err)
	}

	var sent int64
	buf := make([]byte, int(blockSize))
	seq := 1
	reader := bufio.NewReader(src)

	for {
		n, readErr := io.ReadFull(reader, buf)
		switch {
		case readErr == nil:
			// A full buffer doesn't by itself mean more data follows (the
			// exact-block-boundary case): peek one byte without consuming
			// it to tell whether this is actually the final block.
			if _, peekErr := reader.Peek(1); peekErr == io.EOF {
				block, err := sealer.SealLast(buf[:n])
				if err != nil {
					return UploadResult{}, fmt.Errorf("seal final block %d: %w", seq, err)
				}
				if err := client.PutBlock(ctx, id, seq, block); err != nil {
					return UploadResult{}, fmt.Errorf("put final block %d: %w", seq, asRelayError(err))
				}
				sent += int64(n)
				if onProgress != nil {
					onProgress(sent)
				}
				return UploadResult{ID: id, BytesSent: sent}, nil
			}

			block, err := sealer.SealNext(buf[:n])
			if err != nil {
				return UploadResult{}, fmt.Errorf("seal block %d: %w", seq, err)
			}
			if err := client.PutBlock(ctx, id, seq, block); err != nil {
				return UploadResult{}, fmt.Errorf("put block %d: %w", seq, asRelayError(err))
			}
			sent += int64(n)
			if onProgress != nil {
				onProgress(sent)
			}
			seq++

		case readErr == io.EOF || readErr == io.ErrUnexpectedEOF:
			block, err := sealer.SealLast(buf[:n])
			if err != nil {
				return UploadResult{}, fmt.Errorf("seal final block %d: %w", seq, err)
			}
			if err := client.PutBlock(ctx, id, seq, block); err != nil {
				return UploadResult{}, fmt.Errorf("put final block %d: %w", seq, asRelayError(err))
			}
			sent += int64(n)
			if onProgress != nil {
				onProgress(sent)
			}
			return UploadResult{ID: id, BytesSent: sent}, nil

		default:
			return UploadResult{}, fmt.Errorf("read source: %w", readErr)
		}
	}
}

func asRelayError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*RelayError); ok {
		return err
	}
	return &RelayError{Err: err}
}
