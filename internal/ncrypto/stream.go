package ncrypto

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// BlockOverhead is the authentication tag size added to every sealed block.
const BlockOverhead = 16

var (
	// ErrAuthFailed is returned when an AEAD open fails -- ciphertext
	// tampering, wrong key, or a block/filename mismatch.
	ErrAuthFailed = errors.New("ncrypto: authentication failed")

	// ErrStreamFinished is returned when a call is made against a streamer
	// after its last block has already been sealed or opened.
	ErrStreamFinished = errors.New("ncrypto: stream already finished")
)

// nonce builds the 24-byte XChaCha20 nonce for block index i (0-based) given
// the 19-byte stream prefix and the last-block flag. This exact 19+4+1
// layout is the interoperability contract; any other counter width, byte
// order, or flag placement produces silently incompatible ciphertext.
func nonce(prefix [StreamNoncePrefixSize]byte, i uint32, last bool) [chacha20poly1305.NonceSizeX]byte {
	var n [chacha20poly1305.NonceSizeX]byte
	copy(n[:StreamNoncePrefixSize], prefix[:])
	binary.BigEndian.PutUint32(n[StreamNoncePrefixSize:StreamNoncePrefixSize+4], i)
	if last {
		n[StreamNoncePrefixSize+4] = 1
	}
	return n
}

// Sealer seals plaintext blocks in order under the BE32 STREAM construction.
// It is single-writer: the caller must not invoke SealNext/SealLast
// concurrently, and must call SealLast exactly once, after all SealNext
// calls, to terminate the stream.
type Sealer struct {
	aead     chacha20poly1305.AEAD
	prefix   [StreamNoncePrefixSize]byte
	counter  uint32
	finished bool
}

// NewSealer constructs a Sealer for the given key and stream-nonce prefix.
func NewSealer(key [KeySize]byte, prefix [StreamNoncePrefixSize]byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create block cipher: %w", err)
	}
	return &Sealer{aead: aead, prefix: prefix}, nil
}

// SealNext seals a non-final plaintext chunk, advancing the block counter.
func (s *Sealer) SealNext(plaintext []byte) ([]byte, error) {
	if s.finished {
		return nil, ErrStreamFinished
	}
	n := nonce(s.prefix, s.counter, false)
	s.counter++
	return s.aead.Seal(nil, n[:], plaintext, nil), nil
}

// SealLast seals the final plaintext chunk (possibly empty) and poisons the
// streamer so no further calls are accepted.
func (s *Sealer) SealLast(plaintext []byte) ([]byte, error) {
	if s.finished {
		return nil, ErrStreamFinished
	}
	n := nonce(s.prefix, s.counter, true)
	s.finished = true
	return s.aead.Seal(nil, n[:], plaintext, nil), nil
}

// Opener opens ciphertext blocks in order, mirroring Sealer. Any discrepancy
// in call count, order, or the implicit last-block flag between the sealing
// and opening side surfaces as ErrAuthFailed on the mismatched block.
type Opener struct {
	aead     chacha20poly1305.AEAD
	prefix   [StreamNoncePrefixSize]byte
	counter  uint32
	finished bool
}

// NewOpener constructs an Opener for the given key and stream-nonce prefix.
func NewOpener(key [KeySize]byte, prefix [StreamNoncePrefixSize]byte) (*Opener, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create block cipher: %w", err)
	}
	return &Opener{aead: aead, prefix: prefix}, nil
}

// OpenNext opens a non-final ciphertext block, advancing the block counter.
func (o *Opener) OpenNext(ciphertext []byte) ([]byte, error) {
	if o.finished {
		return nil, ErrStreamFinished
	}
	n := nonce(o.prefix, o.counter, false)
	plaintext, err := o.aead.Open(nil, n[:], ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	o.counter++
	return plaintext, nil
}

// OpenLast opens the final ciphertext block and poisons the opener.
func (o *Opener) OpenLast(ciphertext []byte) ([]byte, error) {
	if o.finished {
		return nil, ErrStreamFinished
	}
	n := nonce(o.prefix, o.counter, true)
	plaintext, err := o.aead.Open(nil, n[:], ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	o.finished = true
	return plaintext, nil
}

// BlockCount returns the number of blocks N for a plaintext of the given
// size under blockSize, special-casing a zero-size file to a single block.
func BlockCount(size int64, blockSize int64) int64 {
	if size == 0 {
		return 1
	}
	n := size / blockSize
	if size%blockSize != 0 {
		n++
	}
	return n
}
