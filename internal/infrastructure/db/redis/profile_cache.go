package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/account-service/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache caches profile lookups for GET /me.
// Key format: profile:<user_id>
//
// The cached value includes the password hash so a hit round-trips the full
// domain record; the API layer's response projection keeps it off the wire.
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

type cachedProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Get returns the cached profile for id. The second return value reports a
// hit; a miss is not an error.
func (p *ProfileCache) Get(ctx context.Context, id string) (*domain.User, bool, error) {
	raw, err := p.client.Get(ctx, p.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("profile cache get: %w", err)
	}

	var cp cachedProfile
	if err := json.Unmarshal(raw, &cp); err != nil {
		// Corrupt entry: treat as a miss, the read-through path will rewrite it.
		return nil, false, nil
	}

	return &domain.User{
		ID:           cp.ID,
		Name:         cp.Name,
		Email:        cp.Email,
		PasswordHash: cp.PasswordHash,
		IsAdmin:      cp.IsAdmin,
		CreatedAt:    time.Unix(cp.CreatedAt, 0).UTC(),
		UpdatedAt:    time.Unix(cp.UpdatedAt, 0).UTC(),
	}, true, nil
}

// Set stores the profile (expires after profileTTL).
func (p *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedProfile{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("profile cache marshal: %w", err)
	}
	return p.client.Set(ctx, p.key(user.ID), raw, profileTTL).Err()
}

func (p *ProfileCache) key(id string) string {
	return "profile:" + id
}
