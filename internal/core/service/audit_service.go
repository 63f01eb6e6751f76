package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// DedupChecker guards the audit trail against recording the same event twice
// when a producer retries an enqueue.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, email string, action string, atUnix int64) (bool, error)
	Mark(ctx context.Context, email string, action string, atUnix int64) error
}

// AuditService persists account activity events.
type AuditService struct {
	repo  ports.AuditRepository
	dedup DedupChecker
	log   zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, dedup DedupChecker, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, dedup: dedup, log: log}
}

// Record writes one audit event, skipping exact duplicates. A dedup-store
// failure is logged and treated as a miss; losing the guard is preferable to
// losing the event.
func (s *AuditService) Record(ctx context.Context, input ports.AuditEventInput) error {
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, input.Email, string(input.Action), input.At.Unix())
		if err != nil {
			s.log.Warn().Err(err).Str("email", input.Email).Msg("audit dedup check failed")
		} else if dup {
			metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
			return nil
		} else {
			metrics.AuditDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	event := domain.AuditEvent{
		UserID: input.UserID,
		Email:  input.Email,
		Action: input.Action,
		At:     input.At,
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, input.Email, string(input.Action), input.At.Unix()); err != nil {
			s.log.Warn().Err(err).Str("email", input.Email).Msg("audit dedup mark failed")
		}
	}

	metrics.AuditEventsTotal.WithLabelValues(string(input.Action)).Inc()
	return nil
}
