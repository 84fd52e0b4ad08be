// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the client-side record of the currently authenticated
// identity. The Store is explicitly constructed and injected into the
// components that need it; nothing here is ambient global state. It mirrors
// the backend's auth subsystem: an initial fetch populates the identity, and
// every identity-change notification thereafter overwrites it wholesale.
package session

import (
	"context"
	"sync"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/logging"
)

// TokenSource abstracts where the session's tokens are persisted.
// The keychain-backed implementation lives in this package; tests use fakes.
type TokenSource interface {
	// AccessToken returns the stored access token, or "" when absent.
	AccessToken() string
	// RefreshToken returns the stored refresh token, or "" when absent.
	RefreshToken() string
	// Save stores the token pair. Empty values leave the stored one untouched.
	Save(accessToken, refreshToken string) error
	// Clear removes all stored tokens.
	Clear() error
}

// Store owns the current identity. Exactly one Store is live per process and
// every other component reads it; only this package writes it.
type Store struct {
	mu     sync.RWMutex
	auth   backend.Auth
	tokens TokenSource
	user   *backend.User
}

// New creates a session store over the given auth client and token storage.
func New(auth backend.Auth, tokens TokenSource) *Store {
	return &Store{auth: auth, tokens: tokens}
}

// Initialize fetches the current identity and subscribes to identity-change
// notifications for the remainder of the process lifetime. A failed fetch is
// logged and leaves the session absent; startup never fails here.
func (s *Store) Initialize(ctx context.Context) {
	if tok := s.tokens.AccessToken(); tok != "" {
		u, err := s.auth.GetUser(ctx, tok)
		if err != nil {
			logging.Warnf("session initialize: %s", logging.PresentError("fetch user", err))
			s.SetUser(nil)
		} else {
			s.SetUser(u)
		}
	}

	// Each notification unconditionally replaces the stored identity.
	// No unsubscribe path exists; the consumer runs until process exit.
	ch := s.auth.Subscribe()
	go func() {
		for c := range ch {
			switch c.Event {
			case backend.SignedOut:
				s.SetUser(nil)
			default:
				s.SetUser(c.User)
			}
		}
	}()
}

// FetchUser re-fetches the identity on demand. Unlike Initialize, failures
// propagate to the caller.
func (s *Store) FetchUser(ctx context.Context) error {
	tok := s.tokens.AccessToken()
	if tok == "" {
		s.SetUser(nil)
		return backend.ErrUnauthorized
	}
	u, err := s.auth.GetUser(ctx, tok)
	if err != nil {
		return err
	}
	s.SetUser(u)
	return nil
}

// SetUser overwrites the stored identity. Pass nil to clear it.
func (s *Store) SetUser(u *backend.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SignIn exchanges credentials for a session, persists the tokens and the
// session snapshot, and stores the identity.
func (s *Store) SignIn(ctx context.Context, email, password string) (*backend.User, error) {
	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(sess.AccessToken, sess.RefreshToken); err != nil {
		return nil, err
	}
	s.SetUser(&sess.User)
	_ = Save(State{LoggedIn: true, Account: sess.User.Email})
	return &sess.User, nil
}

// SignOut requests backend sign-out, then clears the local identity and the
// stored tokens regardless of the backend call's outcome. The clear happens
// after the call resolves.
func (s *Store) SignOut(ctx context.Context) error {
	if tok := s.tokens.AccessToken(); tok != "" {
		_ = s.auth.SignOut(ctx, tok)
	}
	s.SetUser(nil)
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	return Clear()
}

// Refresh exchanges the stored refresh token for a new session and persists
// the rotated tokens. Returns false when no refresh token is stored or the
// exchange fails.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	refresh := s.tokens.RefreshToken()
	if refresh == "" {
		return false, nil
	}
	sess, err := s.auth.RefreshSession(ctx, refresh)
	if err != nil {
		return false, err
	}
	if err := s.tokens.Save(sess.AccessToken, sess.RefreshToken); err != nil {
		return false, err
	}
	s.SetUser(&sess.User)
	return true, nil
}

// IsLoggedIn reports whether an identity is present.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// UserID returns the current user id, or "" when no session is present.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// User returns the current identity, or nil.
func (s *Store) User() *backend.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
