package authclient

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// Protected wires an AuthGuard onto route definitions: denied navigations
// are answered with an HTTP redirect to the login route instead of invoking
// the handler.
func Protected(guard *AuthGuard) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !guard.auther.IsLoggedIn(c.Context()) {
				return c.Redirect(guard.loginRoute, http.StatusFound)
			}
			return next(c)
		}
	}
}

// RequireRoles wires a RoleGuard plus its requirement onto a route. The
// requirement is fixed at registration time.
func RequireRoles(guard *RoleGuard, requirement RouteRequirement) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			allow, redirect := guard.decide(c.Context(), requirement)
			if !allow {
				return c.Redirect(redirect, http.StatusFound)
			}
			return next(c)
		}
	}
}
