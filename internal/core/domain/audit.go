package domain

import "time"

// AuditAction identifies a recorded security event.
type AuditAction string

const (
	AuditRegister       AuditAction = "register"
	AuditLogin          AuditAction = "login"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditLoginThrottled AuditAction = "login_throttled"
	AuditUserCreated    AuditAction = "user_created"
	AuditUserUpdated    AuditAction = "user_updated"
	AuditUserDeleted    AuditAction = "user_deleted"
	AuditProfileUpdated AuditAction = "profile_updated"
	AuditMemberAdded    AuditAction = "client_member_added"
	AuditMemberRemoved  AuditAction = "client_member_removed"
)

// AuditEvent is an append-only record of a security-relevant action.
// SubjectID is the account the action concerns; ActorID is who performed it
// (empty for anonymous paths such as login attempts).
type AuditEvent struct {
	Action     AuditAction `json:"action"`
	SubjectID  string      `json:"subject_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Email      string      `json:"email,omitempty"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
