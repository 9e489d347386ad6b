package ports

import (
	"context"

	"github.com/authkit/identity-api/internal/core/domain"
)

// UserCache is a read-through cache for password-free user views.
// A cache miss or backend error is never fatal; callers fall back to the
// repository.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, id string)
}
