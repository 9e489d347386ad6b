package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists queued security
// events to the audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Failures are reported to the caller
// (the dispatcher), which logs them; they never reach the request path.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}

	s.log.Debug().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Bool("success", event.Success).
		Msg("audit event recorded")

	return nil
}
