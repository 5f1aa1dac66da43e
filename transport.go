package authclient

import (
	"net/http"
	"time"
)

// DefaultAuthScheme is the authorization header scheme.
const DefaultAuthScheme = "Bearer"

// DefaultLoginRoute is where the client is sent when a credential is
// rejected.
const DefaultLoginRoute = "/login"

// TokenTransport augments every outgoing request with the stored credential.
// It reads Storage directly, independent of any in-memory session state, so
// it behaves the same for calls issued before the Auther is constructed.
//
// Per call: no stored token forwards the request unmodified (anonymous
// requests must succeed for public endpoints). A token that fails to decode
// fails the call with ErrTokenInvalid; a token with an elapsed exp claim
// fails it with ErrTokenExpired. Both clear the stored credential and
// navigate to the login route, and neither reaches the network.
type TokenTransport struct {
	// Base is the wrapped RoundTripper; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Storage holds the raw credential under TokenStorageKey.
	Storage Storage
	// Navigator receives the redirect-to-login side effect.
	Navigator Navigator
	// Logger defaults to the package logger.
	Logger Logger
	// AuthScheme defaults to "Bearer".
	AuthScheme string
	// LoginRoute defaults to "/login".
	LoginRoute string
	// OnReject, when set, observes every credential rejection after storage
	// has been cleared and the redirect issued.
	OnReject func(err error)
	// Now overrides the clock used for expiry checks (useful for tests).
	Now func() time.Time
}

// NewTokenTransport wires a transport over base with the given storage and
// navigator.
func NewTokenTransport(base http.RoundTripper, storage Storage, navigator Navigator) *TokenTransport {
	return &TokenTransport{
		Base:      base,
		Storage:   storage,
		Navigator: navigator,
	}
}

// NewHTTPClient returns an http.Client whose calls go through a
// TokenTransport.
func NewHTTPClient(storage Storage, navigator Navigator) *http.Client {
	return &http.Client{
		Transport: NewTokenTransport(nil, storage, navigator),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, ok, err := t.Storage.Get(ctx, TokenStorageKey)
	if err != nil {
		t.logger().Warn("token read failed, forwarding anonymous request", "error", err)
		return t.base().RoundTrip(req)
	}

	if !ok || token == "" {
		return t.base().RoundTrip(req)
	}

	claims, err := DecodeToken(token)
	if err != nil {
		return nil, t.reject(req, ErrTokenInvalid)
	}

	if claims.Expired(t.clock()()) {
		return nil, t.reject(req, ErrTokenExpired)
	}

	// RoundTrippers must not mutate the caller's request.
	augmented := req.Clone(ctx)
	augmented.Header.Set("Authorization", t.scheme()+" "+token)

	return t.base().RoundTrip(augmented)
}

func (t *TokenTransport) reject(req *http.Request, cause error) error {
	ctx := req.Context()

	if err := t.Storage.Remove(ctx, TokenStorageKey); err != nil {
		t.logger().Error("unable to clear rejected credential", "error", err)
	}

	if t.Navigator != nil {
		t.Navigator.Go(t.loginRoute())
	}

	if t.OnReject != nil {
		t.OnReject(cause)
	}

	t.logger().Info("credential rejected before dispatch",
		"error", cause,
		"method", req.Method,
		"url", req.URL.String(),
	)

	return cause
}

func (t *TokenTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *TokenTransport) scheme() string {
	if t.AuthScheme != "" {
		return t.AuthScheme
	}
	return DefaultAuthScheme
}

func (t *TokenTransport) loginRoute() string {
	if t.LoginRoute != "" {
		return t.LoginRoute
	}
	return DefaultLoginRoute
}

func (t *TokenTransport) logger() Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return defLogger{}
}

func (t *TokenTransport) clock() func() time.Time {
	if t.Now != nil {
		return t.Now
	}
	return time.Now
}

var _ http.RoundTripper = (*TokenTransport)(nil)
