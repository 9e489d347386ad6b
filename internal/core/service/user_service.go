package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/authkit/identity-api/internal/api/metrics"
	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

// UserService implements directory-facing use cases. Ownership checks live
// here, behind domain.CanMutate, because only these operations know the
// target id at decision time.
type UserService struct {
	repo   ports.UserRepository
	cache  ports.UserCache
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.UserCache, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, audit: audit, logger: logger}
}

// Me returns the principal's own record view.
func (s *UserService) Me(ctx context.Context, principalID string) (*domain.User, error) {
	return s.findCached(ctx, principalID)
}

// GetByID returns any user's record view. The admin role-gate runs in the
// middleware before this is reached.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findCached(ctx, id)
}

// List returns one page of users plus the total count.
func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateDetails mutates a target record after the ownership-gate passes.
// A non-admin may change only their own name; an admin may additionally
// change the target's role. Email and password are never updated here.
func (s *UserService) UpdateDetails(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, input.TargetID); err != nil {
		return nil, err
	}

	decision := domain.CanMutate(input.Actor.ID, input.Actor.Role, input.TargetID, domain.OpUpdate)
	if !decision.Allowed {
		s.denied(input.Actor, input.TargetID, domain.AuditUserUpdate, decision.Reason)
		return nil, domain.ErrForbidden
	}

	update := input.Update
	if input.Actor.Role != domain.RoleAdmin {
		// Self-service updates carry a restricted field set.
		update.Role = nil
	}

	updated, err := s.repo.UpdateDetails(ctx, input.TargetID, update)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", input.TargetID, err)
	}

	s.cache.Invalidate(ctx, input.TargetID)
	s.audit.Record(domain.AuditEvent{
		ActorID:   input.Actor.ID,
		TargetID:  input.TargetID,
		Action:    domain.AuditUserUpdate,
		Success:   true,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info().Str("actor_id", input.Actor.ID).Str("target_id", input.TargetID).Msg("user updated")

	return updated, nil
}

// Delete removes a target record. Only admins may delete, and never
// themselves; see domain.CanMutate.
func (s *UserService) Delete(ctx context.Context, actor domain.Principal, targetID string) error {
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return err
	}

	decision := domain.CanMutate(actor.ID, actor.Role, targetID, domain.OpDelete)
	if !decision.Allowed {
		s.denied(actor, targetID, domain.AuditUserDelete, decision.Reason)
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user %s: %w", targetID, err)
	}

	s.cache.Invalidate(ctx, targetID)
	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.ID,
		TargetID:  targetID,
		Action:    domain.AuditUserDelete,
		Success:   true,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info().Str("actor_id", actor.ID).Str("target_id", targetID).Msg("user deleted")

	return nil
}

func (s *UserService) findCached(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := s.cache.Get(ctx, id); ok {
		return user, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, user)
	return user, nil
}

func (s *UserService) denied(actor domain.Principal, targetID string, action domain.AuditAction, reason domain.DenyReason) {
	metrics.AuthzDenialsTotal.WithLabelValues(string(reason)).Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.ID,
		TargetID:  targetID,
		Action:    domain.AuditAccessDenied,
		Success:   false,
		Reason:    string(reason),
		Timestamp: time.Now().UTC(),
	})
	s.logger.Warn().
		Str("actor_id", actor.ID).
		Str("target_id", targetID).
		Str("action", string(action)).
		Str("reason", string(reason)).
		Msg("mutation denied")
}
