package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// RegisterInput carries a validated registration payload into the service.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserService interface {
	// Register creates the account and returns it together with a signed
	// auth token for the new identity.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Profile resolves an account by its identifier.
	Profile(ctx context.Context, id string) (*domain.User, error)
}
