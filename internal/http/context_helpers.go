package httpx

import (
	"context"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// authUserKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type authUserKey struct{}

// SetAuthUser returns a child context that carries the authenticated user.
// If user is nil, the original ctx is returned unchanged.
func SetAuthUser(ctx context.Context, user *model.AuthUser) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, authUserKey{}, user)
}

// AuthUserFrom returns the authenticated user from context and whether one is present.
func AuthUserFrom(ctx context.Context) (*model.AuthUser, bool) {
	if user, ok := ctx.Value(authUserKey{}).(*model.AuthUser); ok && user != nil {
		return user, true
	}
	return nil, false
}
