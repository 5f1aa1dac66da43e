package authclient

import "context"

var profileCtxKey = &contextKey{"profile"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithProfileContext sets the UserProfile in the given context
func WithProfileContext(ctx context.Context, profile *UserProfile) context.Context {
	return context.WithValue(ctx, profileCtxKey, profile)
}

// ProfileFromContext finds the profile from the context.
func ProfileFromContext(ctx context.Context) (*UserProfile, bool) {
	raw, ok := ctx.Value(profileCtxKey).(*UserProfile)
	return raw, ok
}

// WithClaimsContext sets the TokenClaims in the given context
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the TokenClaims from the context
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return raw, ok
}

// HasRoleInContext is a convenience check against context claims, guest
// sentinel semantics included.
func HasRoleInContext(ctx context.Context, role string) bool {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims == nil {
		return false
	}

	roles := claims.Roles
	if len(roles) == 0 {
		roles = []string{RoleGuest}
	}

	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
