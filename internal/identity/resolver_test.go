package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/helpers"
)

func TestJWTResolverRoundTrip(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	token, _, err := jwt.GenerateAccessToken("donor@example.com", "sid-1")
	require.NoError(t, err)

	email, err := NewJWTResolver(jwt).Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "donor@example.com", email)
}

func TestJWTResolverRejectsEmptyCredential(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	_, err := NewJWTResolver(jwt).Resolve(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestJWTResolverRejectsGarbage(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	_, err := NewJWTResolver(jwt).Resolve(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestJWTResolverRejectsRefreshTokenAsAccess(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	refresh, _, err := jwt.GenerateRefreshToken("donor@example.com", "sid-1")
	require.NoError(t, err)

	_, err = NewJWTResolver(jwt).Resolve(context.Background(), refresh)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}
