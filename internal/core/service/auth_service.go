package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/authkit/identity-api/internal/api/metrics"
	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

// AuthService implements signup, signin, and password change. It holds no
// state of its own; all persistent state lives in the user repository.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	audit  ports.AuditRecorder
	// allowPrivilegedSignup gates role=admin at signup. The upstream design
	// lets any caller self-assign admin; this is off by default pending a
	// product decision (see DESIGN.md).
	allowPrivilegedSignup bool
	logger                zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	audit ports.AuditRecorder,
	allowPrivilegedSignup bool,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:                  repo,
		hasher:                hasher,
		tokens:                tokens,
		audit:                 audit,
		allowPrivilegedSignup: allowPrivilegedSignup,
		logger:                logger,
	}
}

// SignUp creates a new account and issues its first token. The duplicate
// pre-check is best effort; the repository's unique index is authoritative
// and a write-time conflict surfaces as the same ErrDuplicateEmail.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.AuthResult, error) {
	if !input.Role.Valid() {
		input.Role = domain.RoleUser
	}
	if input.Role == domain.RoleAdmin && !s.allowPrivilegedSignup {
		s.logger.Warn().Str("email", input.Email).Msg("privileged signup rejected")
		return nil, domain.ErrForbidden
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}
	if existing != nil {
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateEmail
	}

	start := time.Now()
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	signed, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   created.ID,
		TargetID:  created.ID,
		Action:    domain.AuditSignUp,
		Success:   true,
		Timestamp: now,
	})
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user signed up")

	return &ports.AuthResult{User: created, Token: signed}, nil
}

// SignIn authenticates by email and password. A missing account and a wrong
// password produce the same ErrInvalidCredentials, so callers cannot
// enumerate registered emails.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SigninsTotal.WithLabelValues("invalid").Inc()
			s.recordSigninFailure("", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("signin: lookup email: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		metrics.SigninsTotal.WithLabelValues("invalid").Inc()
		s.recordSigninFailure(user.ID, "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("signin: issue token: %w", err)
	}

	metrics.SigninsTotal.WithLabelValues("ok").Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   user.ID,
		TargetID:  user.ID,
		Action:    domain.AuditSignIn,
		Success:   true,
		Timestamp: time.Now().UTC(),
	})

	return &ports.AuthResult{User: user, Token: signed}, nil
}

// ChangePassword verifies the old credential before persisting a new hash.
// No token is re-issued; outstanding tokens expire naturally.
func (s *AuthService) ChangePassword(ctx context.Context, principalID, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The id came from a validated token, so absence means the
			// directory is inconsistent, not an ordinary not-found. The
			// sentinel is deliberately not wrapped: this must surface as an
			// internal failure, never as a client-facing not-found.
			return fmt.Errorf("change password: principal %s vanished from directory: %v", principalID, err)
		}
		return fmt.Errorf("change password: lookup: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, oldPassword) {
		metrics.PasswordChangesTotal.WithLabelValues("invalid").Inc()
		s.audit.Record(domain.AuditEvent{
			ActorID:   principalID,
			TargetID:  principalID,
			Action:    domain.AuditPasswordChange,
			Success:   false,
			Reason:    "old password mismatch",
			Timestamp: time.Now().UTC(),
		})
		return domain.ErrInvalidCredentials
	}

	start := time.Now()
	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	if err := s.repo.UpdatePassword(ctx, principalID, newHash); err != nil {
		return fmt.Errorf("change password: persist: %w", err)
	}

	metrics.PasswordChangesTotal.WithLabelValues("ok").Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   principalID,
		TargetID:  principalID,
		Action:    domain.AuditPasswordChange,
		Success:   true,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info().Str("user_id", principalID).Msg("password changed")

	return nil
}

func (s *AuthService) recordSigninFailure(actorID, reason string) {
	s.audit.Record(domain.AuditEvent{
		ActorID:   actorID,
		Action:    domain.AuditSignIn,
		Success:   false,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
