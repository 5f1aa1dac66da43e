package authclient

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// SessionStore bridges the in-memory session cell and durable Storage.
// The cell holds at most one UserProfile; nil means no session. Only Save
// and Clear mutate it, and every mutation is mirrored into Storage before
// it is published.
type SessionStore struct {
	storage Storage
	logger  Logger

	mu      sync.RWMutex
	current *UserProfile

	subMu  sync.Mutex
	subs   map[int]func(*UserProfile)
	nextID int
}

// NewSessionStore returns a store over the given durable Storage.
func NewSessionStore(storage Storage, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		storage: storage,
		logger:  defLogger{},
		subs:    map[int]func(*UserProfile){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// SessionStoreOption customizes SessionStore construction.
type SessionStoreOption func(*SessionStore)

// WithSessionStoreLogger overrides the default logger.
func WithSessionStoreLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Load reads the serialized profile mirror from Storage and seeds the cell
// with it. The value may be stale; no network call is made. A missing key or
// a mirror that fails to parse yields nil, never an error.
func (s *SessionStore) Load(ctx context.Context) *UserProfile {
	raw, ok, err := s.storage.Get(ctx, ProfileStorageKey)
	if err != nil {
		s.logger.Warn("session store load failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	profile := new(UserProfile)
	if err := json.Unmarshal([]byte(raw), profile); err != nil {
		s.logger.Warn("discarding unparseable profile mirror", "error", err)
		return nil
	}

	s.publish(profile)
	return profile
}

// Save serializes the profile into Storage and publishes it to every
// subscriber. The storage write happens-before the publish.
func (s *SessionStore) Save(ctx context.Context, profile *UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, ProfileStorageKey, string(raw)); err != nil {
		return err
	}

	s.publish(profile)
	return nil
}

// Clear removes the profile mirror and publishes nil.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.storage.Remove(ctx, ProfileStorageKey); err != nil {
		return err
	}

	s.publish(nil)
	return nil
}

// Current returns the last published value.
func (s *SessionStore) Current() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn and immediately replays the current value to it.
// Every subsequent published value is delivered synchronously, in
// registration order. The returned func removes the subscription.
func (s *SessionStore) Subscribe(fn func(*UserProfile)) func() {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	fn(s.Current())

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *SessionStore) publish(profile *UserProfile) {
	s.mu.Lock()
	s.current = profile
	s.mu.Unlock()

	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*UserProfile), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(profile)
	}
}
