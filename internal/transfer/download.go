package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nanum-dev/nanum/internal/ncrypto"
)

// DownloadResult reports the outcome of a successful download.
type DownloadResult struct {
	Filename string
	Size     int64
}

// Download fetches metadata for id, opens the filename as a cheap
// passphrase probe before any block is fetched, then streams and decrypts
// every block in order into dst.
func Download(ctx context.Context, client RelayClient, id string, passphrase []byte, dst io.Writer) (DownloadResult, error) {
	desc, err := client.GetMetadata(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUnknownShare) {
			return DownloadResult{}, ErrUnknownShare
		}
		return DownloadResult{}, fmt.Errorf("get metadata: %w", asRelayError(err))
	}

	if !desc.HasBlockSize() {
		return DownloadResult{}, ErrMissingBlockSize
	}

	salt, err := as(desc.Salt, ncrypto.SaltSize)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("metadata salt: %w", err)
	}
	prefix, err := as(desc.Nonce, ncrypto.StreamNoncePrefixSize)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("metadata nonce: %w", err)
	}
	filenameNonce, err := as(desc.FilenameNonce, ncrypto.FilenameNonceSize)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("metadata filename_nonce: %w", err)
	}

	key, err := ncrypto.DeriveKey(passphrase, salt[:])
	if err != nil {
		return DownloadResult{}, fmt.Errorf("derive key: %w", err)
	}

	var filenameNonceArr [ncrypto.FilenameNonceSize]byte
	copy(filenameNonceArr[:], filenameNonce[:])
	filename, err := ncrypto.OpenFilename(key, filenameNonceArr, desc.Filename)
	if err != nil {
		return DownloadResult{}, ErrWrongPassphrase
	}

	var streamPrefix [ncrypto.StreamNoncePrefixSize]byte
	copy(streamPrefix[:], prefix[:])
	opener, err := ncrypto.NewOpener(key, streamPrefix)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("create opener: %w", err)
	}

	n := ncrypto.BlockCount(desc.Size, desc.BlockSize)
	var written int64

	for seq := int64(1); seq < n; seq++ {
		block, err := client.GetBlock(ctx, id, int(seq))
		if err != nil {
			return DownloadResult{}, fmt.Errorf("get block %d: %w", seq, asRelayError(err))
		}
		plaintext, err := opener.OpenNext(block)
		if err != nil {
			return DownloadResult{}, ErrCiphertextCorrupted
		}
		if _, err := dst.Write(plaintext); err != nil {
			return DownloadResult{}, fmt.Errorf("write plaintext: %w", err)
		}
		written += int64(len(plaintext))
	}

	lastBlock, err := client.GetBlock(ctx, id, int(n))
	if err != nil {
		return DownloadResult{}, fmt.Errorf("get block %d: %w", n, asRelayError(err))
	}
	plaintext, err := opener.OpenLast(lastBlock)
	if err != nil {
		return DownloadResult{}, ErrCiphertextCorrupted
	}
	if _, err := dst.Write(plaintext); err != nil {
		return DownloadResult{}, fmt.Errorf("write plaintext: %w", err)
	}
	written += int64(len(plaintext))

	if written != desc.Size {
		return DownloadResult{}, ErrSizeMismatch
	}

	return DownloadResult{Filename: string(filename), Size: written}, nil
}

// as returns b unchanged, failing if its length isn't exactly size -- a
// malformed metadata record should never silently truncate or zero-pad a
// cryptographic input when the caller copies it into a fixed-size array.
func as(b []byte, size int) ([]byte, error) {
	if len(b) != size {
		return nil, fmt.Errorf("expected %d bytes, got %d", size, len(b))
	}
	return b, nil
}
