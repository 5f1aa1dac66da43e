package authclient

import "context"

// DefaultUnauthorizedRoute is where RoleGuard sends sessions that lack every
// required role.
const DefaultUnauthorizedRoute = "/unauthorized"

// RouteRequirement is static metadata attached to a navigable route: the
// session must hold at least one of Roles. Defined at registration time,
// never mutated.
type RouteRequirement struct {
	Roles []string
}

// AuthGuard admits navigations with a stored credential and redirects the
// rest to the login route. Evaluated synchronously, no network call; an
// expired-but-stored credential is admitted here and rejected by the
// transport on the screen's first call.
type AuthGuard struct {
	auther     *Auther
	navigator  Navigator
	loginRoute string
}

// NewAuthGuard builds a guard over the given Auther and Navigator.
func NewAuthGuard(auther *Auther, navigator Navigator, loginRoute string) *AuthGuard {
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	return &AuthGuard{
		auther:     auther,
		navigator:  navigator,
		loginRoute: loginRoute,
	}
}

// CanActivate returns true when a credential is stored; otherwise it
// triggers the login redirect and denies.
func (g *AuthGuard) CanActivate(ctx context.Context) bool {
	if g.auther.IsLoggedIn(ctx) {
		return true
	}
	g.navigate(g.loginRoute)
	return false
}

func (g *AuthGuard) navigate(route string) {
	if g.navigator != nil {
		g.navigator.Go(route)
	}
}

// RoleGuard applies the AuthGuard check and then requires at least one of
// the route's roles (logical OR). Logged-in sessions without a matching role
// are redirected to the unauthorized route.
type RoleGuard struct {
	auther            *Auther
	navigator         Navigator
	loginRoute        string
	unauthorizedRoute string
}

// NewRoleGuard builds a role guard; empty routes fall back to the defaults.
func NewRoleGuard(auther *Auther, navigator Navigator, loginRoute, unauthorizedRoute string) *RoleGuard {
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	if unauthorizedRoute == "" {
		unauthorizedRoute = DefaultUnauthorizedRoute
	}
	return &RoleGuard{
		auther:            auther,
		navigator:         navigator,
		loginRoute:        loginRoute,
		unauthorizedRoute: unauthorizedRoute,
	}
}

// CanActivate evaluates the requirement and triggers the matching redirect
// on denial.
func (g *RoleGuard) CanActivate(ctx context.Context, requirement RouteRequirement) bool {
	allow, redirect := g.decide(ctx, requirement)
	if !allow && g.navigator != nil {
		g.navigator.Go(redirect)
	}
	return allow
}

// decide returns the verdict plus the redirect target used on denial.
func (g *RoleGuard) decide(ctx context.Context, requirement RouteRequirement) (bool, string) {
	if !g.auther.IsLoggedIn(ctx) {
		return false, g.loginRoute
	}

	for _, required := range requirement.Roles {
		if g.auther.HasRole(ctx, required) {
			return true, ""
		}
	}

	return false, g.unauthorizedRoute
}
