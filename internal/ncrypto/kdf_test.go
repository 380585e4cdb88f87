package ncrypto

import "testing"

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := [SaltSize]byte{}
	for i := range salt {
		salt[i] = byte(i)
	}

	k1, err := DeriveKey([]byte("hunter2"), salt[:])
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	k2, err := DeriveKey([]byte("hunter2"), salt[:])
	if err != nil {
		t.Fatalf("DeriveKey() second call error = %v", err)
	}

	if k1 != k2 {
		t.Error("DeriveKey is not deterministic for identical inputs")
	}
}

func TestDeriveKeyDiffersOnPassphrase(t *testing.T) {
	salt := make([]byte, SaltSize)

	k1, err := DeriveKey([]byte("hunter2"), salt)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	k2, err := DeriveKey([]byte("hunter3"), salt)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if k1 == k2 {
		t.Error("different passphrases produced the same key")
	}
}

func TestDeriveKeyDiffersOnSalt(t *testing.T) {
	passphrase := []byte("correct horse battery staple")

	saltA := make([]byte, SaltSize)
	saltB := make([]byte, SaltSize)
	saltB[0] = 1

	k1, err := DeriveKey(passphrase, saltA)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	k2, err := DeriveKey(passphrase, saltB)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if k1 == k2 {
		t.Error("different salts produced the same key")
	}
}
