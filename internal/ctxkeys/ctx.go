package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the verified bearer-token payload attached to authenticated
// requests. Resource-level ownership is still checked against the store by
// the services; this only answers "who is calling".
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}

func User(ctx context.Context) *Identity {
	identity, _ := ctx.Value(IdentityKey).(*Identity)
	return identity
}

func WithUser(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
