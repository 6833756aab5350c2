package shared

import "context"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	StaffID  int64
	Username string
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// OperatorID returns the authenticated staff id, or zero when absent.
func OperatorID(ctx context.Context) int64 {
	id, _ := IdentityFromContext(ctx)
	return id.StaffID
}
