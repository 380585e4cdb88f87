// Package ncrypto implements the client-side streaming AEAD pipeline used to
// seal and open shared files: key derivation, the filename sub-cipher, and
// the BE32 STREAM block construction over XChaCha20-Poly1305.
package ncrypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size in bytes of the derived symmetric key.
	KeySize = 32

	// SaltSize is the size in bytes of the per-share KDF salt.
	SaltSize = 32

	// StreamNoncePrefixSize is the size in bytes of the STREAM nonce prefix
	// stored in the metadata descriptor; combined with a 4-byte big-endian
	// counter and a 1-byte last-block flag it forms the full 24-byte
	// XChaCha20 nonce for each block.
	StreamNoncePrefixSize = 19

	// FilenameNonceSize is the size in bytes of the filename cipher's nonce.
	FilenameNonceSize = 24
)

// DeriveKey derives the 32-byte symmetric key shared by the filename cipher
// and the block streamer from a passphrase and a per-share salt via
// HKDF-SHA256 with an empty info string. Domain separation between the two
// uses is provided entirely by disjoint nonces, not by this derivation.
func DeriveKey(passphrase, salt []byte) ([KeySize]byte, error) {
	var key [KeySize]byte

	reader := hkdf.New(sha256.New, passphrase, salt, nil)
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return key, fmt.Errorf("derive key: %w", err)
	}

	return key, nil
}
