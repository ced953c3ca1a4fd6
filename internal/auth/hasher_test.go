package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestBcrypt_HashNeverEqualsPlaintext(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(DefaultBcryptCost)
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if hash == "secret1" {
		t.Fatal("hash must differ from plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("expected bcrypt cost 10 prefix, got %s", hash)
	}
}

func TestBcrypt_Salted(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(4)
	hash1, _ := h.Hash("same")
	hash2, _ := h.Hash("same")

	if hash1 == hash2 {
		t.Error("same password should produce different hashes due to random salt")
	}
}

func TestBcrypt_Verify(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(4)
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name      string
		password  string
		encoded   string
		wantMatch bool
		wantErr   error
	}{
		{"correct", "secret1", hash, true, nil},
		{"incorrect", "secret2", hash, false, nil},
		{"garbage hash", "secret1", "nope", false, ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := h.Verify(tt.password, tt.encoded)
			if match != tt.wantMatch {
				t.Errorf("match = %v, want %v", match, tt.wantMatch)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBcrypt_LongPasswordTruncated(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(4)
	long := strings.Repeat("a", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash of 80-byte password failed: %v", err)
	}

	ok, err := h.Verify(long, hash)
	if err != nil || !ok {
		t.Errorf("Verify(long) = %v, %v; want true, nil", ok, err)
	}

	// Only the first 72 bytes take part in the hash.
	ok, err = h.Verify(strings.Repeat("a", 72)+"different", hash)
	if err != nil || !ok {
		t.Errorf("Verify(same 72-byte prefix) = %v, %v; want true, nil", ok, err)
	}

	ok, err = h.Verify(strings.Repeat("a", 71), hash)
	if err != nil || ok {
		t.Errorf("Verify(shorter prefix) = %v, %v; want false, nil", ok, err)
	}
}

func TestBcrypt_EmptyPassword(t *testing.T) {
	t.Parallel()

	_, err := NewBcrypt(4).Hash("")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestNewBcrypt_CostBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cost int
		want int
	}{
		{0, DefaultBcryptCost},
		{3, DefaultBcryptCost},
		{4, 4},
		{12, 12},
		{32, DefaultBcryptCost},
	}

	for _, tt := range tests {
		if got := NewBcrypt(tt.cost).Cost(); got != tt.want {
			t.Errorf("NewBcrypt(%d).Cost() = %d, want %d", tt.cost, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if h, err := New("", 10); err != nil {
		t.Errorf("New(\"\") error: %v", err)
	} else if _, ok := h.(*BcryptHasher); !ok {
		t.Errorf("New(\"\") = %T, want *BcryptHasher", h)
	}

	if h, err := New(AlgorithmArgon2id, 0); err != nil {
		t.Errorf("New(argon2id) error: %v", err)
	} else if _, ok := h.(*Argon2idHasher); !ok {
		t.Errorf("New(argon2id) = %T, want *Argon2idHasher", h)
	}

	if _, err := New("md5", 0); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New(md5) error = %v, want ErrUnknownAlgorithm", err)
	}
}
