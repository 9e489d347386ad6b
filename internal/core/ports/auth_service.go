package ports

import (
	"context"

	"github.com/authkit/identity-api/internal/core/domain"
)

// SignUpInput carries already-validated signup data from the transport layer.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthResult is returned by SignUp and SignIn: a password-free record view
// plus a freshly issued bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService authenticates principals and maintains credential integrity.
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	// ChangePassword re-authenticates the old credential before storing the
	// new hash. Previously issued tokens stay valid until natural expiry.
	ChangePassword(ctx context.Context, principalID, oldPassword, newPassword string) error
}
