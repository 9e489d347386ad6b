package domain

import "time"

// AuditAction identifies a security-relevant event recorded in the audit trail.
type AuditAction string

const (
	AuditSignUp         AuditAction = "signup"
	AuditSignIn         AuditAction = "signin"
	AuditPasswordChange AuditAction = "password_change"
	AuditUserUpdate     AuditAction = "user_update"
	AuditUserDelete     AuditAction = "user_delete"
	AuditAccessDenied   AuditAction = "access_denied"
)

// AuditEvent records a single security-relevant action. ActorID may be empty
// for unauthenticated operations (failed signin attempts).
type AuditEvent struct {
	ActorID   string
	TargetID  string
	Action    AuditAction
	Success   bool
	Reason    string // populated on failure, never contains credentials
	Timestamp time.Time
}
