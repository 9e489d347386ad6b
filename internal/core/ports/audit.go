package ports

import (
	"context"

	"github.com/authkit/identity-api/internal/core/domain"
)

// AuditRecorder accepts security events for asynchronous recording.
// Record must never block the request path beyond queue admission and must
// never surface an error into the calling operation.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService processes queued audit events.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
