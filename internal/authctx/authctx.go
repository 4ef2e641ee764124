package authctx

import (
	"context"

	"github.com/medisecure/medisecure-backend/internal/auth"
)

type ctxKey struct{}

// WithClaims attaches verified claims to a request context so non-HTTP
// layers (repos, job enqueue) can read the acting identity.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*auth.Claims)

	return claims, ok && claims != nil
}

func UserIDFrom(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFrom(ctx)

	if !ok {
		return "", false
	}

	return claims.UserID, claims.UserID != ""
}
