// Package hash wraps bcrypt behind the PasswordHasher port. The produced hash
// embeds its own salt and cost, so verification needs no external state.
package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt operates on at most 72 bytes of input; longer passwords would be
// silently truncated, so they are rejected outright.
const maxPasswordBytes = 72

var ErrEmptyPassword = errors.New("hash: empty password")
var ErrPasswordTooLong = errors.New("hash: password exceeds 72 bytes")

type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given cost. Costs outside bcrypt's
// valid range fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash produces a salted one-way hash of plaintext. Two calls with the same
// input yield different hashes.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A malformed hash yields
// false, never an error. bcrypt's comparison runs in time independent of
// where a mismatch occurs.
func (b *Bcrypt) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
