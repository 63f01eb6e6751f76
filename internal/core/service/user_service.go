package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/hash"
	"github.com/userhub/account-service/internal/core/ports"
	"github.com/userhub/account-service/internal/core/token"
)

// UserService implements registration and profile lookup.
type UserService struct {
	repo   ports.UserRepository
	cache  ports.ProfileCache
	issuer *token.Issuer
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.ProfileCache, issuer *token.Issuer, audit ports.AuditSink, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, issuer: issuer, audit: audit, logger: logger}
}

// Register creates a new account and issues its auth token.
//
// The duplicate pre-check here is advisory: two concurrent registrations with
// the same email can both pass it. The repository's unique email index is the
// actual race guard, and its duplicate-key error maps to the same
// domain.ErrUserExists outcome.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	start := time.Now()
	passwordHash, err := hash.Password(input.Password)
	if err != nil {
		return nil, "", err
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, "", err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, "", err
	}

	signed, err := s.issuer.Issue(created)
	if err != nil {
		return nil, "", err
	}

	if s.audit != nil {
		s.audit.Enqueue(ports.AuditEventInput{
			UserID: created.ID,
			Email:  created.Email,
			Action: domain.AuditRegistered,
			At:     now,
		})
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")

	return created, signed, nil
}

// Profile resolves an account by id, reading through the cache.
func (s *UserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	if s.cache != nil {
		if user, ok, err := s.cache.Get(ctx, id); err == nil && ok {
			return user, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
		}
	}

	return user, nil
}
