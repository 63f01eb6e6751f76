package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// AuditRepository defines the interface for audit trail persistence.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
