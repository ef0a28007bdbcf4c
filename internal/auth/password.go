// Package auth holds the credential primitives: password hashing and the
// signed bearer token codec.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with a per-call random salt embedded in the output.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A non-positive cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt encoding of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed or empty hashes
// never match.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
