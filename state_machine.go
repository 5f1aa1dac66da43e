package authclient

import (
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidSessionTransition = "INVALID_SESSION_TRANSITION"

// ErrInvalidSessionTransition is returned when a requested phase change is
// not allowed.
var ErrInvalidSessionTransition = goerrors.New("invalid session phase transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidSessionTransition).
	WithCode(goerrors.CodeConflict)

// SessionPhase is the whole-session view of the auth flow.
type SessionPhase string

const (
	// PhaseAnonymous is the initial phase: no credential stored.
	PhaseAnonymous SessionPhase = "anonymous"
	// PhaseCredentialStored means a credential is persisted but the profile
	// fetch has not succeeded yet. A failed fetch stays here: the credential
	// remains stored and the session cell keeps its previous value.
	PhaseCredentialStored SessionPhase = "credential_stored"
	// PhaseAuthenticated means the profile fetch succeeded.
	PhaseAuthenticated SessionPhase = "authenticated"
	// PhaseInvalidated is entered when the transport rejects the stored
	// credential as invalid or expired; storage is cleared and the client is
	// redirected, after which the session returns to anonymous.
	PhaseInvalidated SessionPhase = "invalidated"
)

// LifecycleOption customizes SessionLifecycle construction.
type LifecycleOption func(*SessionLifecycle)

// WithLifecycleClock injects a custom clock (useful for tests).
func WithLifecycleClock(clock func() time.Time) LifecycleOption {
	return func(l *SessionLifecycle) {
		if clock != nil {
			l.now = clock
		}
	}
}

// WithLifecyclePhase overrides the starting phase, e.g. when reconstructing
// a session after a process restart.
func WithLifecyclePhase(phase SessionPhase) LifecycleOption {
	return func(l *SessionLifecycle) {
		if phase != "" {
			l.phase = phase
		}
	}
}

// WithLifecycleLogger overrides the logger used for transition traces.
func WithLifecycleLogger(logger Logger) LifecycleOption {
	return func(l *SessionLifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// SessionLifecycle centralizes the session phase transition graph.
type SessionLifecycle struct {
	mu          sync.Mutex
	phase       SessionPhase
	changedAt   time.Time
	transitions map[SessionPhase]map[SessionPhase]struct{}
	now         func() time.Time
	logger      Logger
}

// NewSessionLifecycle returns a lifecycle starting at PhaseAnonymous.
func NewSessionLifecycle(opts ...LifecycleOption) *SessionLifecycle {
	l := &SessionLifecycle{
		phase: PhaseAnonymous,
		transitions: map[SessionPhase]map[SessionPhase]struct{}{
			PhaseAnonymous: {
				PhaseCredentialStored: {},
			},
			PhaseCredentialStored: {
				PhaseAuthenticated: {},
				PhaseInvalidated:   {},
				PhaseAnonymous:     {},
			},
			PhaseAuthenticated: {
				// Logging in as a different user replaces the session.
				PhaseCredentialStored: {},
				PhaseInvalidated:      {},
				PhaseAnonymous:        {},
			},
			PhaseInvalidated: {
				PhaseAnonymous: {},
			},
		},
		now:    time.Now,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	l.changedAt = l.now()
	return l
}

// Phase returns the current phase.
func (l *SessionLifecycle) Phase() SessionPhase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// ChangedAt returns when the current phase was entered.
func (l *SessionLifecycle) ChangedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.changedAt
}

// CanTransition reports whether from -> to is in the transition table.
// The table is immutable after construction.
func (l *SessionLifecycle) CanTransition(from, to SessionPhase) bool {
	return l.allowed(from, to)
}

// Transition moves the lifecycle to target. Transitioning to the current
// phase is a no-op; anything outside the table fails with
// ErrInvalidSessionTransition.
func (l *SessionLifecycle) Transition(target SessionPhase) error {
	if target == "" {
		return withMeta(ErrInvalidSessionTransition, map[string]any{
			"reason": "target phase is empty",
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == target {
		return nil
	}

	if !l.allowed(l.phase, target) {
		return withMeta(ErrInvalidSessionTransition, map[string]any{
			"from": l.phase,
			"to":   target,
		})
	}

	l.logger.Debug("session phase transition", "from", l.phase, "to", target)
	l.phase = target
	l.changedAt = l.now()
	return nil
}

func (l *SessionLifecycle) allowed(from, to SessionPhase) bool {
	if allowed, ok := l.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
