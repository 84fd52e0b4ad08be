// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, handler http.HandlerFunc) *authHTTP {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newAuthHTTP(newHTTP(srv.URL, "anon-key"))
}

// receive pops one pending change without blocking the test on a quiet channel.
func receive(t *testing.T, ch <-chan Change) (Change, bool) {
	t.Helper()
	select {
	case c := <-ch:
		return c, true
	default:
		return Change{}, false
	}
}

func TestGetUserSendsBearer(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Email: "u1@example.com"})
	})

	u, err := auth.GetUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestSignInPublishesSignedIn(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		assert.Equal(t, "u1@example.com", creds["email"])

		_ = json.NewEncoder(w).Encode(Session{
			AccessToken:  "at",
			RefreshToken: "rt",
			User:         User{ID: "u1", Email: "u1@example.com"},
		})
	})
	ch := auth.Subscribe()

	sess, err := auth.SignInWithPassword(context.Background(), "u1@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "at", sess.AccessToken)

	c, ok := receive(t, ch)
	require.True(t, ok, "sign-in must notify subscribers")
	assert.Equal(t, SignedIn, c.Event)
	require.NotNil(t, c.User)
	assert.Equal(t, "u1", c.User.ID)
}

func TestSignInFailurePublishesNothing(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ch := auth.Subscribe()

	_, err := auth.SignInWithPassword(context.Background(), "u1@example.com", "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	_, ok := receive(t, ch)
	assert.False(t, ok)
}

func TestSignUpWithConfirmationPendingPublishesNothing(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		// Confirmation required: user returned without tokens
		_ = json.NewEncoder(w).Encode(Session{User: User{ID: "u1"}})
	})
	ch := auth.Subscribe()

	sess, err := auth.SignUp(context.Background(), "u1@example.com", "pw")

	require.NoError(t, err)
	assert.Empty(t, sess.AccessToken)
	_, ok := receive(t, ch)
	assert.False(t, ok, "no session yet, so no change")
}

func TestSignOutPublishesEvenOnBackendFailure(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})
	ch := auth.Subscribe()

	err := auth.SignOut(context.Background(), "tok")

	require.Error(t, err)
	c, ok := receive(t, ch)
	require.True(t, ok, "sign-out notifies subscribers whatever the backend said")
	assert.Equal(t, SignedOut, c.Event)
	assert.Nil(t, c.User)
}

func TestRefreshSessionPublishesTokenRefreshed(t *testing.T) {
	auth := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "rt1", body["refresh_token"])

		_ = json.NewEncoder(w).Encode(Session{
			AccessToken:  "at2",
			RefreshToken: "rt2",
			User:         User{ID: "u1"},
		})
	})
	ch := auth.Subscribe()

	sess, err := auth.RefreshSession(context.Background(), "rt1")

	require.NoError(t, err)
	assert.Equal(t, "at2", sess.AccessToken)

	c, ok := receive(t, ch)
	require.True(t, ok)
	assert.Equal(t, TokenRefreshed, c.Event)
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	auth := newAuthHTTP(newHTTP("http://unused", "anon-key"))
	ch := auth.Subscribe()

	// Fill the subscriber's buffer and keep publishing; extra events are
	// dropped instead of stalling the publisher.
	for i := 0; i < 20; i++ {
		auth.publish(Change{Event: SignedIn})
	}

	drained := 0
	for {
		if _, ok := receive(t, ch); !ok {
			break
		}
		drained++
	}
	assert.Equal(t, 8, drained)
}
