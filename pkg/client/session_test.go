package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *SessionStore {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := tempStore(t)

	assert.False(t, store.WasInitialized())

	require.NoError(t, store.MarkInitialized())
	assert.True(t, store.WasInitialized())

	require.NoError(t, store.Clear())
	assert.False(t, store.WasInitialized())

	// clearing an absent flag is fine
	require.NoError(t, store.Clear())
}

func TestOpenAndCloseSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	store := tempStore(t)

	require.NoError(t, OpenSession(context.Background(), c, store, testProvider))
	assert.True(t, c.IsInitialized())
	assert.True(t, store.WasInitialized())

	require.NoError(t, CloseSession(context.Background(), c, store))
	assert.False(t, c.IsInitialized())
	assert.False(t, store.WasInitialized())
}

func TestEnsureSessionResumes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	store := tempStore(t)
	require.NoError(t, store.MarkInitialized())

	resumed, err := EnsureSession(context.Background(), c, store, testProvider)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.True(t, c.IsInitialized())
}

func TestEnsureSessionNothingToResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected without a persisted flag")
	}))
	defer srv.Close()

	resumed, err := EnsureSession(context.Background(), newTestClient(srv), tempStore(t), testProvider)
	require.NoError(t, err)
	assert.False(t, resumed)
}

// A failed resume clears the flag so the next run does not loop.
func TestEnsureSessionFailureClearsFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	store := tempStore(t)
	require.NoError(t, store.MarkInitialized())

	resumed, err := EnsureSession(context.Background(), c, store, testProvider)
	require.Error(t, err)
	assert.False(t, resumed)
	assert.False(t, c.IsInitialized())
	assert.False(t, store.WasInitialized())
}
