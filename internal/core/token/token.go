package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/account-service/internal/core/domain"
)

// Claims is the decoded payload of an auth token.
type Claims struct {
	UserID  string
	IsAdmin bool
}

// Issuer signs and verifies auth tokens with a process-wide HS256 secret.
// The secret is fixed at construction time; tokens carry no expiry claim and
// there is no revocation list, so validity is purely signature correctness.
type Issuer struct {
	secret []byte
}

// NewIssuer returns an Issuer for the given secret. An empty secret is a
// configuration fault and is rejected so the process fails at startup rather
// than signing forgeable tokens.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue produces a signed token binding the user's identifier and admin flag.
func (i *Issuer) Issue(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"_id":     user.ID,
		"isAdmin": user.IsAdmin,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify decodes a token and checks its signature. Any failure (malformed
// structure, wrong algorithm, signature mismatch, missing identifier claim)
// yields domain.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, _ := claims["_id"].(string)
	if id == "" {
		return nil, domain.ErrInvalidToken
	}
	isAdmin, _ := claims["isAdmin"].(bool)

	return &Claims{UserID: id, IsAdmin: isAdmin}, nil
}
