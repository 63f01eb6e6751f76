package domain

import (
	"errors"
	"time"
)

var ErrUserExists = errors.New("user already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrMissingToken = errors.New("access denied, no token provided")
var ErrInvalidToken = errors.New("invalid token")

// User models a registered account. PasswordHash is never serialized;
// external responses use an explicit projection instead of this struct.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
