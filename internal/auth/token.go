package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSubject = errors.New("token has no subject")

// Identity 会话身份：JWT 的 sub
type Identity struct {
	Subject   string
	ExpiresAt time.Time
}

func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// IdentityFromToken reads the claims without verifying them. The client
// has no signing secret; the server checks the token on every connection.
func IdentityFromToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if sub == "" {
		return Identity{}, ErrNoSubject
	}
	id := Identity{Subject: sub}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}
