package metadata

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestDescriptorRoundTrip(t *testing.T) {
	d := Descriptor{
		CreatorEmail:  "alice@example.com",
		Salt:          bytes.Repeat([]byte{1}, 32),
		Nonce:         bytes.Repeat([]byte{2}, 19),
		FilenameNonce: bytes.Repeat([]byte{3}, 24),
		Filename:      []byte("seal me"),
		Size:          12345,
		BlockSize:     1048576,
	}

	raw, err := d.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.CreatorEmail != d.CreatorEmail || got.Size != d.Size || got.BlockSize != d.BlockSize {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, d)
	}
	if !bytes.Equal(got.Salt, d.Salt) || !bytes.Equal(got.Filename, d.Filename) {
		t.Error("byte fields did not round-trip")
	}
}

func TestCreationRequestOmitsCreatorEmail(t *testing.T) {
	r := CreationRequest{
		Salt:      []byte{1, 2, 3},
		Size:      0,
		BlockSize: 1048576,
	}

	raw, err := r.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if _, ok := generic["creator_email"]; ok {
		t.Error("creation request must not contain creator_email")
	}
}

func TestIntoDescriptorStampsCreatorEmail(t *testing.T) {
	r := CreationRequest{Filename: []byte("a.bin"), Size: 100, BlockSize: 1048576}
	d := r.IntoDescriptor("bob@example.com")

	if d.CreatorEmail != "bob@example.com" {
		t.Errorf("CreatorEmail = %q, want %q", d.CreatorEmail, "bob@example.com")
	}
	if d.Size != r.Size || !bytes.Equal(d.Filename, r.Filename) {
		t.Error("IntoDescriptor dropped fields from the creation request")
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"creator_email":"a@b.com","salt":"AQ==","nonce":"Ag==","filename_nonce":"Aw==","filename":"ZmlsZQ==","size":1,"block_size":2,"future_field":"ignored"}`)

	d, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.CreatorEmail != "a@b.com" || d.Size != 1 {
		t.Errorf("Unmarshal() = %+v", d)
	}
}

func TestHasBlockSize(t *testing.T) {
	if (Descriptor{}).HasBlockSize() {
		t.Error("zero-value descriptor must report HasBlockSize() = false")
	}
	if !(Descriptor{BlockSize: 1}).HasBlockSize() {
		t.Error("descriptor with positive block_size must report HasBlockSize() = true")
	}
}
