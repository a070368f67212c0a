package middleware

import (
	"context"

	"worklog/internal/models"
)

type ctxKey int

const identityKey ctxKey = iota

// Identity is the authenticated caller of a request.
type Identity struct {
	SessionID string
	User      *models.User
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by RequireAuth, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil && id.User != nil
}
