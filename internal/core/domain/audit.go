package domain

import "time"

// AuditAction identifies the kind of account activity being recorded.
type AuditAction string

const (
	AuditRegistered AuditAction = "registered"
)

// AuditEvent records a single account activity for the audit trail.
type AuditEvent struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Action AuditAction `json:"action"`
	At     time.Time   `json:"at"`
}
