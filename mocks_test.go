package authclient_test

import (
	"context"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	authclient "github.com/goliatone/go-auth-client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type mockAPI struct {
	loginFn  func(ctx context.Context, identifier, password string) (string, error)
	fetchFn  func(ctx context.Context) (*authclient.UserProfile, error)
	updateFn func(ctx context.Context, id uuid.UUID, patch authclient.ProfileUpdate) (*authclient.UserProfile, error)

	mu          sync.Mutex
	fetchCalls  int
	updateCalls int
}

func (m *mockAPI) Login(ctx context.Context, identifier, password string) (string, error) {
	return m.loginFn(ctx, identifier, password)
}

func (m *mockAPI) FetchProfile(ctx context.Context) (*authclient.UserProfile, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	return m.fetchFn(ctx)
}

func (m *mockAPI) UpdateProfile(ctx context.Context, id uuid.UUID, patch authclient.ProfileUpdate) (*authclient.UserProfile, error) {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	return m.updateFn(ctx, id, patch)
}

func (m *mockAPI) fetched() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Go(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// signToken mints a credential for decode-only tests; the signature is never
// verified by the client.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return token
}

func testProfile() *authclient.UserProfile {
	return &authclient.UserProfile{
		ID:        uuid.New(),
		FirstName: "Sara",
		LastName:  "Quintero",
		Username:  "squintero",
		Email:     "sara@club.example",
		Phone:     "+34911234567",
		Roles:     []string{"ADMIN"},
	}
}
