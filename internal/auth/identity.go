package auth

import (
	"context"
	"slices"
)

const RoleAdmin = "ROLE_ADMIN"

// Identity is the acting principal extracted from the verified bearer token.
type Identity struct {
	UserID int64
	Roles  []string
}

func (i Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, RoleAdmin)
}

// CanAccess reports whether the identity may act on a resource owned by
// ownerID: owners and admins only.
func (i Identity) CanAccess(ownerID int64) bool {
	return i.IsAdmin() || i.UserID == ownerID
}

type ctxKey int

const (
	identityKey ctxKey = iota
	tokenKey
)

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// WithToken keeps the raw bearer token so outbound calls to the user
// directory can forward the caller's credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
