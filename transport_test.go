package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	authclient "github.com/goliatone/go-auth-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportAnonymousPassThrough(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	navigator := &recordingNavigator{}
	client := authclient.NewHTTPClient(authclient.NewMemoryStorage(), navigator)

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "", gotAuth.Load())
	assert.Empty(t, navigator.visited())
}

func TestTransportAttachesBearerHeader(t *testing.T) {
	ctx := context.Background()
	token := signToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, token))

	navigator := &recordingNavigator{}
	client := authclient.NewHTTPClient(storage, navigator)

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "Bearer "+token, gotAuth.Load())
	assert.Empty(t, navigator.visited())

	// no storage mutation on the happy path
	stored, ok, err := storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token, stored)
}

func TestTransportDoesNotMutateCallerRequest(t *testing.T) {
	ctx := context.Background()
	token := signToken(t, jwt.MapClaims{"sub": "42"})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, token))

	transport := authclient.NewTokenTransport(nil, storage, authclient.NoopNavigator{})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	res, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestTransportExpiredToken(t *testing.T) {
	ctx := context.Background()
	token := signToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, token))

	navigator := &recordingNavigator{}
	transport := authclient.NewTokenTransport(nil, storage, navigator)
	transport.Logger = noopLogger{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	res, err := transport.RoundTrip(req)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, authclient.ErrTokenExpired)
	assert.Contains(t, err.Error(), "Token expirado")
	assert.True(t, authclient.IsTokenExpiredError(err))

	// never reached the network
	assert.Equal(t, int32(0), calls.Load())

	// credential removed, redirect triggered exactly once
	_, ok, getErr := storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, getErr)
	assert.False(t, ok)
	assert.Equal(t, []string{authclient.DefaultLoginRoute}, navigator.visited())
}

func TestTransportInvalidToken(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, "three.bogus.segments"))

	navigator := &recordingNavigator{}
	transport := authclient.NewTokenTransport(nil, storage, navigator)
	transport.Logger = noopLogger{}

	var rejected error
	transport.OnReject = func(err error) { rejected = err }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	res, err := transport.RoundTrip(req)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, authclient.ErrTokenInvalid)
	assert.Contains(t, err.Error(), "Token inválido")
	assert.True(t, authclient.IsTokenInvalidError(err))
	assert.ErrorIs(t, rejected, authclient.ErrTokenInvalid)

	assert.Equal(t, int32(0), calls.Load())

	_, ok, getErr := storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, getErr)
	assert.False(t, ok)
	assert.Equal(t, []string{authclient.DefaultLoginRoute}, navigator.visited())
}

func TestTransportRejectionThroughClient(t *testing.T) {
	// the sentinel stays recognizable through http.Client's url.Error wrap
	ctx := context.Background()
	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, "garbage"))

	transport := authclient.NewTokenTransport(nil, storage, authclient.NoopNavigator{})
	transport.Logger = noopLogger{}
	client := &http.Client{Transport: transport}

	_, err := client.Get("http://backend.invalid/users/me")
	require.Error(t, err)
	assert.ErrorIs(t, err, authclient.ErrTokenInvalid)
}

func TestTransportNoTokenNeverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := authclient.NewHTTPClient(authclient.NewMemoryStorage(), authclient.NoopNavigator{})

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestTransportCustomScheme(t *testing.T) {
	ctx := context.Background()
	token := signToken(t, jwt.MapClaims{"sub": "42"})

	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
	}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, token))

	transport := authclient.NewTokenTransport(nil, storage, authclient.NoopNavigator{})
	transport.AuthScheme = "Token"
	client := &http.Client{Transport: transport}

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "Token "+token, gotAuth.Load())
}

func TestTransportFrozenClock(t *testing.T) {
	ctx := context.Background()
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{"sub": "42", "exp": exp.Unix()})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	storage := authclient.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, token))

	transport := authclient.NewTokenTransport(nil, storage, authclient.NoopNavigator{})
	transport.Logger = noopLogger{}
	transport.Now = func() time.Time { return exp.Add(-time.Second) }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	res, err := transport.RoundTrip(req)
	require.NoError(t, err)
	res.Body.Close()

	// one second later the same token is rejected
	transport.Now = func() time.Time { return exp.Add(time.Second) }

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = transport.RoundTrip(req)
	assert.ErrorIs(t, err, authclient.ErrTokenExpired)
}
