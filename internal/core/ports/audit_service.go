package ports

import (
	"context"
	"time"

	"github.com/userhub/account-service/internal/core/domain"
)

// AuditEventInput is the unit of work flowing through the audit pipeline.
type AuditEventInput struct {
	UserID string
	Email  string
	Action domain.AuditAction
	At     time.Time
}

type AuditService interface {
	Record(ctx context.Context, input AuditEventInput) error
}

// AuditSink accepts audit events for asynchronous recording. Producers must
// never block on or fail because of the audit trail.
type AuditSink interface {
	Enqueue(event AuditEventInput)
}
