package ncrypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// FilenameOverhead is the authentication tag size added to a sealed filename.
const FilenameOverhead = 16

// SealFilename seals the UTF-8 filename bytes under key and filenameNonce
// using single-shot XChaCha20-Poly1305 with empty associated data. The
// output is filename||tag and must never be reused for a second filename
// with the same nonce.
func SealFilename(key [KeySize]byte, filenameNonce [FilenameNonceSize]byte, filename []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create filename cipher: %w", err)
	}

	return aead.Seal(nil, filenameNonce[:], filename, nil), nil
}

// OpenFilename opens a filename sealed by SealFilename. A non-nil error
// (ErrAuthFailed) means key, nonce, and ciphertext are inconsistent --
// typically a wrong passphrase.
func OpenFilename(key [KeySize]byte, filenameNonce [FilenameNonceSize]byte, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create filename cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, filenameNonce[:], ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}
