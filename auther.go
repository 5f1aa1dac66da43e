package authclient

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// Auther is the public auth API used by the rest of the application: login,
// logout, profile fetch/refresh, and claim queries. Claim queries decode the
// stored credential fresh on every call and swallow decode failures into
// defaults; the transport is the only place where decode failures become
// typed errors.
type Auther struct {
	api       API
	store     *SessionStore
	storage   Storage
	lifecycle *SessionLifecycle
	logger    Logger
	debug     bool
}

// AutherOption customizes Auther construction.
type AutherOption func(*Auther)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) AutherOption {
	return func(a *Auther) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLifecycle injects a shared SessionLifecycle.
func WithLifecycle(lifecycle *SessionLifecycle) AutherOption {
	return func(a *Auther) {
		if lifecycle != nil {
			a.lifecycle = lifecycle
		}
	}
}

// WithDebug enables payload logging on profile updates.
func WithDebug(debug bool) AutherOption {
	return func(a *Auther) {
		a.debug = debug
	}
}

// NewAuther returns an Auther over the backend API, the session store, and
// the same durable Storage the transport reads. The starting lifecycle phase
// is derived from what storage already holds.
func NewAuther(api API, store *SessionStore, storage Storage, opts ...AutherOption) *Auther {
	a := &Auther{
		api:     api,
		store:   store,
		storage: storage,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.lifecycle == nil {
		a.lifecycle = NewSessionLifecycle(WithLifecyclePhase(a.initialPhase()))
	}

	return a
}

func (a *Auther) initialPhase() SessionPhase {
	ctx := context.Background()

	if _, ok := a.Token(ctx); !ok {
		return PhaseAnonymous
	}
	if a.store.Current() != nil {
		return PhaseAuthenticated
	}
	if _, cached, _ := a.storage.Get(ctx, ProfileStorageKey); cached {
		return PhaseAuthenticated
	}
	return PhaseCredentialStored
}

// Lifecycle exposes the session phase machine.
func (a *Auther) Lifecycle() *SessionLifecycle {
	return a.lifecycle
}

// Store exposes the session store for subscribers.
func (a *Auther) Store() *SessionStore {
	return a.store
}

// Login delegates to the backend authentication endpoint and returns the
// issued credential. It does not mutate session state; callers pass the
// credential to SetAuthData.
func (a *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	token, err := a.api.Login(ctx, identifier, password)
	if err != nil {
		a.logger.Error("Login backend rejection", "error", err)
		return "", err
	}
	return token, nil
}

// SetAuthData persists the raw credential and then refreshes the profile.
// The credential write happens-before the fetch, so any call fired while the
// fetch is in flight observes the new token. A failed fetch is logged and
// leaves session state unchanged; the credential stays stored.
func (a *Auther) SetAuthData(ctx context.Context, token string) error {
	if err := a.storage.Set(ctx, TokenStorageKey, token); err != nil {
		return err
	}

	a.transition(PhaseCredentialStored)

	if _, err := a.FetchUser(ctx); err != nil {
		a.logger.Warn("profile fetch after login failed, session state unchanged", "error", err)
	}

	return nil
}

// FetchUser refreshes the profile from the backend. With no stored
// credential it publishes nil and returns nil without a network call. On
// success the profile is mirrored into the store; on failure the error is
// propagated and session state is left as it was.
func (a *Auther) FetchUser(ctx context.Context) (*UserProfile, error) {
	if _, ok := a.Token(ctx); !ok {
		if err := a.store.Clear(ctx); err != nil {
			a.logger.Warn("unable to clear session on tokenless fetch", "error", err)
		}
		return nil, nil
	}

	profile, err := a.api.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(ctx, profile); err != nil {
		return nil, err
	}

	a.transition(PhaseAuthenticated)
	return profile, nil
}

// Logout removes both stored keys and publishes nil. It does not navigate;
// callers navigate afterward.
func (a *Auther) Logout(ctx context.Context) error {
	if err := a.storage.Remove(ctx, TokenStorageKey); err != nil {
		return err
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}

	a.transition(PhaseAnonymous)
	return nil
}

// Invalidate folds a transport rejection into the lifecycle: the transport
// has already cleared the credential and navigated, so the session cell is
// flushed and the phase settles back to anonymous.
func (a *Auther) Invalidate(ctx context.Context) {
	a.transition(PhaseInvalidated)

	if err := a.store.Clear(ctx); err != nil {
		a.logger.Warn("unable to clear session on invalidation", "error", err)
	}

	a.transition(PhaseAnonymous)
}

// Token is a raw read of the stored credential.
func (a *Auther) Token(ctx context.Context) (string, bool) {
	token, ok, err := a.storage.Get(ctx, TokenStorageKey)
	if err != nil {
		a.logger.Warn("token read failed", "error", err)
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, ok
}

// IsLoggedIn reports whether a credential is stored. It deliberately does
// not check expiry: this is the coarse, fast predicate used by guards, while
// expiry is enforced by the transport on the next network call.
func (a *Auther) IsLoggedIn(ctx context.Context) bool {
	_, ok := a.Token(ctx)
	return ok
}

// DecodeToken returns the claims of the stored credential, or nil when no
// credential is stored or it fails to decode. It never returns an error.
func (a *Auther) DecodeToken(ctx context.Context) *TokenClaims {
	token, ok := a.Token(ctx)
	if !ok {
		return nil
	}

	claims, err := DecodeToken(token)
	if err != nil {
		a.logger.Debug("stored credential failed to decode", "error", err)
		return nil
	}
	return claims
}

// Email projects the email claim, empty when absent.
func (a *Auther) Email(ctx context.Context) string {
	if claims := a.DecodeToken(ctx); claims != nil {
		return claims.Email
	}
	return ""
}

// Username projects the subject claim, empty when absent.
func (a *Auther) Username(ctx context.Context) string {
	if claims := a.DecodeToken(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

// Roles returns the roles claim, defaulting to the guest sentinel when the
// claim is absent or the credential does not decode. Decoded fresh on every
// call, never cached.
func (a *Auther) Roles(ctx context.Context) []string {
	claims := a.DecodeToken(ctx)
	if claims == nil || len(claims.Roles) == 0 {
		return []string{RoleGuest}
	}
	return claims.Roles
}

// HasRole is a case-sensitive membership test against Roles.
func (a *Auther) HasRole(ctx context.Context, role string) bool {
	for _, r := range a.Roles(ctx) {
		if r == role {
			return true
		}
	}
	return false
}

// IsGuest reports whether the role list is empty or exactly the guest
// sentinel.
func (a *Auther) IsGuest(ctx context.Context) bool {
	claims := a.DecodeToken(ctx)
	if claims == nil || len(claims.Roles) == 0 {
		return true
	}
	return len(claims.Roles) == 1 && claims.Roles[0] == RoleGuest
}

// UpdateUserProfile validates and submits a partial profile update. On
// success the returned profile replaces the session mirror; on failure state
// is unchanged and the error propagates.
func (a *Auther) UpdateUserProfile(ctx context.Context, id uuid.UUID, patch ProfileUpdate) (*UserProfile, error) {
	if err := patch.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile update")
	}

	patch.Normalize(DefaultPhoneRegion)

	if a.debug {
		a.logger.Debug("profile update payload", "payload", print.MaybePrettyJSON(patch))
	}

	profile, err := a.api.UpdateProfile(ctx, id, patch)
	if err != nil {
		a.logger.Error("UpdateUserProfile backend rejection", "error", err)
		return nil, err
	}

	if err := a.store.Save(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (a *Auther) transition(target SessionPhase) {
	if err := a.lifecycle.Transition(target); err != nil {
		a.logger.Debug("session phase not updated", "target", target, "error", err)
	}
}
