package ports

import (
	"context"

	"github.com/authkit/identity-api/internal/core/domain"
)

// ListUsersFilter carries an already-normalized page window for listing users.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int // max rows per page (capped at 100 by the handler)
}

// UserUpdate carries the fields an update may touch. Nil means "leave as is".
// Email and password hash are deliberately absent: email is immutable and
// password changes go through AuthService.ChangePassword only.
type UserUpdate struct {
	Name *string
	Role *domain.Role
}

// UserRepository is the persistence collaborator holding user records.
// It owns the authoritative email-uniqueness constraint: Create must return
// domain.ErrDuplicateEmail on conflict even when the service-level pre-check
// passed (check-then-act races are resolved here, at write time).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateDetails(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
	// List returns a page of users and the total record count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
