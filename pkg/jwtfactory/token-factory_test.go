package jwtfactory

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAdmin(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)
	factory := New(tokenAuth, time.Hour)

	tokenString, err := factory.GenerateAdmin("ops@example.com")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(tokenAuth, tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims["sub"])
	assert.Equal(t, RoleAdmin, claims[RoleClaim])
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expiration(), time.Minute)
}

func TestGenerateAdmin_WithoutExpiration(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)

	tokenString, err := New(tokenAuth, 0).GenerateAdmin("ops")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(tokenAuth, tokenString)
	require.NoError(t, err)
	assert.True(t, token.Expiration().IsZero())
}
