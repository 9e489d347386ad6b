package ports

import (
	"context"

	"github.com/authkit/identity-api/internal/core/domain"
)

// UpdateUserInput carries an update request against a target user record.
// The actor comes from the validated token; TargetID from the route.
type UpdateUserInput struct {
	Actor    domain.Principal
	TargetID string
	Update   UserUpdate
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService exposes directory-facing use cases. Ownership checks live here,
// behind domain.CanMutate, because only these operations know the target id.
type UserService interface {
	Me(ctx context.Context, principalID string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
	UpdateDetails(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Principal, targetID string) error
}
