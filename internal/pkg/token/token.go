// Package token issues HS256-signed bearer tokens binding a principal
// identity. Only issuance lives here; validation happens in the API
// middleware when a token comes back on a later request.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authkit/identity-api/internal/core/domain"
)

var ErrMissingSecret = errors.New("token: signing secret is required")
var ErrInvalidTTL = errors.New("token: ttl must be positive")

// Issuer signs short-lived tokens with a shared HS256 secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. An empty secret or non-positive ttl is a
// misconfiguration and fails construction; a token without expiry is a
// defect, not a feature.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue returns a signed token for the given subject. Every call mints a
// distinct token value even for the same subject, via a random jti claim.
func (i *Issuer) Issue(subjectID, email string, role domain.Role) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
		"jti":   newTokenID(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// newTokenID returns a random 8-byte hex identifier.
func newTokenID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: current nanoseconds
		return fmt.Sprintf("%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("%016X", b)
}
