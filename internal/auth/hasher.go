// Package auth provides password hashing for stored credentials.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// bcryptMaxPasswordLen is the number of plaintext bytes bcrypt consumes.
// Longer passwords are truncated rather than rejected.
const bcryptMaxPasswordLen = 72

// Hasher algorithm names accepted by New.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrEmptyPassword is returned when asked to hash an empty plaintext.
	ErrEmptyPassword = errors.New("password is required")
	// ErrUnknownAlgorithm is returned by New for unsupported algorithms.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
)

// Hasher produces and verifies salted one-way password hashes.
type Hasher interface {
	// Hash returns an encoded hash of plaintext with a fresh random salt.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches an encoded hash.
	Verify(plaintext, encoded string) (bool, error)
}

// New returns the Hasher for the named algorithm.
// cost only applies to bcrypt.
func New(algorithm string, cost int) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cost), nil
	case AlgorithmArgon2id:
		return NewArgon2id(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcrypt creates a BcryptHasher. Out of range costs fall back to DefaultBcryptCost.
func NewBcrypt(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash implements Hasher.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify implements Hasher.
func (h *BcryptHasher) Verify(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), bcryptInput(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

// bcryptInput returns the bytes of plaintext that bcrypt actually hashes.
func bcryptInput(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > bcryptMaxPasswordLen {
		b = b[:bcryptMaxPasswordLen]
	}
	return b
}
