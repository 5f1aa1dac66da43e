package authclient_test

import (
	"context"
	"path/filepath"
	"testing"

	authclient "github.com/goliatone/go-auth-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	storage := authclient.NewMemoryStorage()

	_, ok, err := storage.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, "k", "v1"))
	value, ok, err := storage.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", value)

	require.NoError(t, storage.Set(ctx, "k", "v2"))
	value, _, err = storage.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	require.NoError(t, storage.Remove(ctx, "k"))
	_, ok, err = storage.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is not an error
	require.NoError(t, storage.Remove(ctx, "k"))
}

func TestBunStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := authclient.OpenSQLiteStorage(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer storage.Close()

	_, ok, err := storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, "tok-1"))
	value, ok, err := storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", value)

	// upsert replaces in place
	require.NoError(t, storage.Set(ctx, authclient.TokenStorageKey, "tok-2"))
	value, _, err = storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", value)

	require.NoError(t, storage.Remove(ctx, authclient.TokenStorageKey))
	_, ok, err = storage.Get(ctx, authclient.TokenStorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBunStorageSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	storage, err := authclient.OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, authclient.ProfileStorageKey, `{"username":"squintero"}`))
	require.NoError(t, storage.Close())

	reopened, err := authclient.OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, authclient.ProfileStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"username":"squintero"}`, value)
}

func TestBunStorageInitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage, err := authclient.OpenSQLiteStorage(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer storage.Close()

	require.NoError(t, storage.Init(ctx))
}

func TestBunStorageBacksSessionStore(t *testing.T) {
	ctx := context.Background()
	storage, err := authclient.OpenSQLiteStorage(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer storage.Close()

	store := authclient.NewSessionStore(storage, authclient.WithSessionStoreLogger(noopLogger{}))
	profile := testProfile()
	require.NoError(t, store.Save(ctx, profile))

	// a fresh store over the same database restores the profile
	restored := authclient.NewSessionStore(storage, authclient.WithSessionStoreLogger(noopLogger{}))
	restored.Load(ctx)
	current := restored.Current()
	require.NotNil(t, current)
	assert.Equal(t, profile.Username, current.Username)
	assert.Equal(t, profile.Roles, current.Roles)
}
