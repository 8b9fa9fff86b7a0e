package auth

import "context"

// SetClaimsForTesting injects claims into the context so handler tests can
// skip the JWT middleware.
func SetClaimsForTesting(ctx context.Context, claims *CustomClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
