package jwtfactory

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	RoleClaim = "role"
	RoleAdmin = "admin"
)

// TokenFactory issues bearer tokens for the admin API.
type TokenFactory struct {
	tokenAuth           *jwtauth.JWTAuth
	tokenExpirationTime time.Duration
	now                 func() time.Time
}

func New(tokenAuth *jwtauth.JWTAuth, tokenExpirationTime time.Duration) *TokenFactory {
	return &TokenFactory{
		tokenAuth:           tokenAuth,
		tokenExpirationTime: tokenExpirationTime,
		now:                 time.Now,
	}
}

func (tf *TokenFactory) GenerateAdmin(subject string) (string, error) {
	timeNow := tf.now()
	claims := map[string]any{
		"sub":     subject,
		RoleClaim: RoleAdmin,
		"iat":     timeNow.Unix(),
	}
	if tf.tokenExpirationTime > 0 {
		claims["exp"] = timeNow.Add(tf.tokenExpirationTime).Unix()
	}
	_, tokenString, err := tf.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return tokenString, nil
}
