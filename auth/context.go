package auth

import "context"

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// ContextWithPrincipal attaches the authenticated identity to a context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the authenticated identity, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
