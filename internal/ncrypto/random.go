package ncrypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// ShareSecrets bundles the three per-share random values drawn once at
// upload time: the KDF salt, the STREAM nonce prefix, and the filename
// nonce. All three must be fresh for every share and are stored in clear in
// the metadata descriptor.
type ShareSecrets struct {
	Salt          [SaltSize]byte
	StreamPrefix  [StreamNoncePrefixSize]byte
	FilenameNonce [FilenameNonceSize]byte
}

// NewShareSecrets draws fresh salt and nonces from a CSPRNG. A read failure
// here is EntropyUnavailable and must abort the upload before any network
// I/O.
func NewShareSecrets() (ShareSecrets, error) {
	var s ShareSecrets

	if _, err := io.ReadFull(rand.Reader, s.Salt[:]); err != nil {
		return s, fmt.Errorf("read salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, s.StreamPrefix[:]); err != nil {
		return s, fmt.Errorf("read stream nonce prefix: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, s.FilenameNonce[:]); err != nil {
		return s, fmt.Errorf("read filename nonce: %w", err)
	}

	return s, nil
}
