package ports

import "github.com/authkit/identity-api/internal/core/domain"

// PasswordHasher is the one-way credential hashing collaborator. The hash
// embeds its own salt and parameters so Verify needs no external state.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails on a malformed hash; it reports false.
	Verify(hash, plaintext string) bool
}

// TokenIssuer mints signed, time-bounded bearer tokens. Issuance happens only
// at signup and signin; validation belongs to the transport middleware.
type TokenIssuer interface {
	Issue(subjectID, email string, role domain.Role) (string, error)
}
