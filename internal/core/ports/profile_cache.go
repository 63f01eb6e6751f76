package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// ProfileCache is a read-through cache for profile lookups. A miss is not an
// error; Get reports it through the second return value.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool, error)
	Set(ctx context.Context, user *domain.User) error
}
