// Package identity resolves bearer credentials to a verified account email.
// The core trusts the resolved email as authoritative for the duration of one
// request; everything about how the credential was issued lives behind the
// Resolver interface.
package identity

import (
	"context"

	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/helpers"
)

// Resolver turns a bearer credential into a verified email address.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (email string, err error)
}

// JWTResolver validates access tokens minted by our own login flow.
type JWTResolver struct {
	JWT *helpers.JWTManager
}

func NewJWTResolver(jwt *helpers.JWTManager) *JWTResolver {
	return &JWTResolver{JWT: jwt}
}

func (r *JWTResolver) Resolve(_ context.Context, credential string) (string, error) {
	if credential == "" {
		return "", apperr.New(apperr.Unauthenticated, "missing credential")
	}
	claims, err := r.JWT.ParseAccessToken(credential)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Unauthenticated, "invalid credential")
	}
	if claims.Email == "" {
		return "", apperr.New(apperr.Unauthenticated, "credential carries no identity")
	}
	return claims.Email, nil
}

var _ Resolver = (*JWTResolver)(nil)
