// Package metadata implements the JSON wire format binding a share's salt,
// nonces, encrypted filename, and size fields -- the only cross-party
// contract besides the ciphertext blocks themselves.
package metadata

import "encoding/json"

// Descriptor is the metadata record read back from the relay. All byte
// fields round-trip through standard base64 via encoding/json's []byte
// support. Unknown fields are ignored on decode for forward compatibility,
// which is the default behaviour of encoding/json and requires no extra
// code here.
type Descriptor struct {
	CreatorEmail  string `json:"creator_email"`
	Salt          []byte `json:"salt"`
	Nonce         []byte `json:"nonce"`
	FilenameNonce []byte `json:"filename_nonce"`
	Filename      []byte `json:"filename"`
	Size          int64  `json:"size"`
	BlockSize     int64  `json:"block_size"`
}

// CreationRequest is the payload a client POSTs to create a share. It omits
// CreatorEmail: the relay stamps that field from the authenticated session
// before persisting, so a client never transmits or controls it.
type CreationRequest struct {
	Salt          []byte `json:"salt"`
	Nonce         []byte `json:"nonce"`
	FilenameNonce []byte `json:"filename_nonce"`
	Filename      []byte `json:"filename"`
	Size          int64  `json:"size"`
	BlockSize     int64  `json:"block_size"`
}

// IntoDescriptor stamps creatorEmail onto the creation request to produce
// the persisted descriptor, mirroring the relay's server-side behaviour.
func (r CreationRequest) IntoDescriptor(creatorEmail string) Descriptor {
	return Descriptor{
		CreatorEmail:  creatorEmail,
		Salt:          r.Salt,
		Nonce:         r.Nonce,
		FilenameNonce: r.FilenameNonce,
		Filename:      r.Filename,
		Size:          r.Size,
		BlockSize:     r.BlockSize,
	}
}

// Marshal encodes the descriptor as JSON.
func (d Descriptor) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Marshal encodes the creation request as JSON.
func (r CreationRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a descriptor from JSON.
func Unmarshal(data []byte) (Descriptor, error) {
	var d Descriptor
	err := json.Unmarshal(data, &d)
	return d, err
}

// UnmarshalCreationRequest decodes a creation request from JSON.
func UnmarshalCreationRequest(data []byte) (CreationRequest, error) {
	var r CreationRequest
	err := json.Unmarshal(data, &r)
	return r, err
}

// HasBlockSize reports whether the descriptor carries a usable block size.
// Per the admin CLI's tolerance for older records, a missing or zero
// block_size is valid on the list path but must be rejected before any
// download attempts to compute a block count from it.
func (d Descriptor) HasBlockSize() bool {
	return d.BlockSize > 0
}
