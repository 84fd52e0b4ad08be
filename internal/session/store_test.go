// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopfront/cli/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth is a scripted backend.Auth. The change channel is handed to the
// test so it can drive identity notifications directly.
type fakeAuth struct {
	user       *backend.User
	userErr    error
	session    *backend.Session
	signInErr  error
	signOutErr error
	refreshErr error

	ch chan backend.Change

	getUserCalls  int
	signOutCalled bool
	signOutToken  string
	refreshToken  string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{ch: make(chan backend.Change, 8)}
}

func (f *fakeAuth) GetUser(ctx context.Context, accessToken string) (*backend.User, error) {
	f.getUserCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	f.signOutCalled = true
	f.signOutToken = accessToken
	return f.signOutErr
}

func (f *fakeAuth) RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error) {
	f.refreshToken = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.session, nil
}

func (f *fakeAuth) Subscribe() <-chan backend.Change {
	return f.ch
}

// fakeTokens is an in-memory TokenSource.
type fakeTokens struct {
	access  string
	refresh string
	saveErr error
	cleared bool
}

func (f *fakeTokens) AccessToken() string  { return f.access }
func (f *fakeTokens) RefreshToken() string { return f.refresh }

func (f *fakeTokens) Save(accessToken, refreshToken string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.access, f.refresh = accessToken, refreshToken
	return nil
}

func (f *fakeTokens) Clear() error {
	f.access, f.refresh = "", ""
	f.cleared = true
	return nil
}

func testUser(id string) *backend.User {
	return &backend.User{ID: id, Email: id + "@example.com"}
}

func TestInitializePopulatesIdentityFromStoredToken(t *testing.T) {
	auth := newFakeAuth()
	auth.user = testUser("u1")
	store := New(auth, &fakeTokens{access: "tok"})

	store.Initialize(context.Background())

	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "u1", store.UserID())
	assert.Equal(t, 1, auth.getUserCalls)
}

func TestInitializeWithoutTokenStaysSignedOut(t *testing.T) {
	auth := newFakeAuth()
	store := New(auth, &fakeTokens{})

	store.Initialize(context.Background())

	assert.False(t, store.IsLoggedIn())
	assert.Zero(t, auth.getUserCalls, "no identity fetch without a stored token")
}

func TestInitializeSwallowsFetchFailure(t *testing.T) {
	auth := newFakeAuth()
	auth.userErr = fmt.Errorf("boom")
	store := New(auth, &fakeTokens{access: "tok"})

	store.Initialize(context.Background())

	assert.False(t, store.IsLoggedIn(), "a failed fetch means signed out, never a startup error")
}

func TestFetchUserWithoutTokenReturnsUnauthorized(t *testing.T) {
	store := New(newFakeAuth(), &fakeTokens{})

	err := store.FetchUser(context.Background())

	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.False(t, store.IsLoggedIn())
}

func TestFetchUserPropagatesFailureAndKeepsIdentity(t *testing.T) {
	auth := newFakeAuth()
	auth.user = testUser("u1")
	store := New(auth, &fakeTokens{access: "tok"})
	require.NoError(t, store.FetchUser(context.Background()))

	auth.userErr = fmt.Errorf("boom")
	err := store.FetchUser(context.Background())

	require.Error(t, err)
	assert.True(t, store.IsLoggedIn(), "a failed re-fetch keeps the previous identity")
}

func TestSignInStoresTokensAndIdentity(t *testing.T) {
	auth := newFakeAuth()
	auth.session = &backend.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		User:         *testUser("u1"),
	}
	tokens := &fakeTokens{}
	store := New(auth, tokens)

	user, err := store.SignIn(context.Background(), "u1@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "at", tokens.access)
	assert.Equal(t, "rt", tokens.refresh)
	assert.True(t, store.IsLoggedIn())
}

func TestSignInTokenSaveFailurePropagates(t *testing.T) {
	auth := newFakeAuth()
	auth.session = &backend.Session{AccessToken: "at", User: *testUser("u1")}
	tokens := &fakeTokens{saveErr: fmt.Errorf("keychain locked")}
	store := New(auth, tokens)

	_, err := store.SignIn(context.Background(), "u1@example.com", "pw")

	require.Error(t, err)
	assert.False(t, store.IsLoggedIn())
}

func TestSignOutClearsLocalStateEvenWhenBackendFails(t *testing.T) {
	auth := newFakeAuth()
	auth.user = testUser("u1")
	auth.signOutErr = fmt.Errorf("boom")
	tokens := &fakeTokens{access: "tok"}
	store := New(auth, tokens)
	require.NoError(t, store.FetchUser(context.Background()))

	_ = store.SignOut(context.Background())

	assert.True(t, auth.signOutCalled)
	assert.Equal(t, "tok", auth.signOutToken)
	assert.False(t, store.IsLoggedIn())
	assert.True(t, tokens.cleared)
}

func TestRefreshWithoutTokenIsNoOp(t *testing.T) {
	auth := newFakeAuth()
	store := New(auth, &fakeTokens{})

	ok, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, auth.refreshToken)
}

func TestRefreshRotatesTokens(t *testing.T) {
	auth := newFakeAuth()
	auth.session = &backend.Session{
		AccessToken:  "at2",
		RefreshToken: "rt2",
		User:         *testUser("u1"),
	}
	tokens := &fakeTokens{access: "at1", refresh: "rt1"}
	store := New(auth, tokens)

	ok, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rt1", auth.refreshToken)
	assert.Equal(t, "at2", tokens.access)
	assert.Equal(t, "rt2", tokens.refresh)
	assert.True(t, store.IsLoggedIn())
}

func TestChangeNotificationsReplaceIdentity(t *testing.T) {
	auth := newFakeAuth()
	store := New(auth, &fakeTokens{})
	store.Initialize(context.Background())
	require.False(t, store.IsLoggedIn())

	auth.ch <- backend.Change{Event: backend.SignedIn, User: testUser("u1")}
	require.Eventually(t, store.IsLoggedIn, time.Second, 5*time.Millisecond)
	assert.Equal(t, "u1", store.UserID())

	auth.ch <- backend.Change{Event: backend.TokenRefreshed, User: testUser("u2")}
	require.Eventually(t, func() bool { return store.UserID() == "u2" }, time.Second, 5*time.Millisecond)

	auth.ch <- backend.Change{Event: backend.SignedOut}
	require.Eventually(t, func() bool { return !store.IsLoggedIn() }, time.Second, 5*time.Millisecond)
}
