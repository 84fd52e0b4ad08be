package backend

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// authHTTP implements Auth over the GoTrue-style REST endpoints.
// It doubles as the identity-change notification source: every successful
// sign-in, sign-out, and token refresh it performs is published to all
// subscribers, collapsing those transitions into "set or clear identity"
// for the session layer.
type authHTTP struct {
	h *HTTP

	mu   sync.Mutex
	subs []chan Change
}

func newAuthHTTP(h *HTTP) *authHTTP {
	return &authHTTP{h: h}
}

// GetUser calls GET /auth/v1/user with the bearer token.
func (a *authHTTP) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := a.h.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}
	var u User
	if err := a.h.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignInWithPassword calls POST /auth/v1/token?grant_type=password.
// A successful sign-in is published as a SignedIn change.
func (a *authHTTP) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	q := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	req, err := a.h.newRequest(ctx, http.MethodPost, "/auth/v1/token", q, body, "")
	if err != nil {
		return nil, err
	}
	var s Session
	if err := a.h.do(req, &s); err != nil {
		return nil, err
	}
	a.publish(Change{Event: SignedIn, User: &s.User})
	return &s, nil
}

// SignUp calls POST /auth/v1/signup. When email confirmation is enabled the
// response carries the user but no tokens; no change is published until the
// first sign-in.
func (a *authHTTP) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	req, err := a.h.newRequest(ctx, http.MethodPost, "/auth/v1/signup", nil, body, "")
	if err != nil {
		return nil, err
	}
	var s Session
	if err := a.h.do(req, &s); err != nil {
		return nil, err
	}
	if s.AccessToken != "" {
		a.publish(Change{Event: SignedIn, User: &s.User})
	}
	return &s, nil
}

// SignOut calls POST /auth/v1/logout. The SignedOut change is published once
// the call resolves, whatever its outcome, so local state always converges on
// "no identity".
func (a *authHTTP) SignOut(ctx context.Context, accessToken string) error {
	req, err := a.h.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}
	err = a.h.do(req, nil)
	a.publish(Change{Event: SignedOut})
	return err
}

// RefreshSession calls POST /auth/v1/token?grant_type=refresh_token.
func (a *authHTTP) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}

	req, err := a.h.newRequest(ctx, http.MethodPost, "/auth/v1/token", q, body, "")
	if err != nil {
		return nil, err
	}
	var s Session
	if err := a.h.do(req, &s); err != nil {
		return nil, err
	}
	a.publish(Change{Event: TokenRefreshed, User: &s.User})
	return &s, nil
}

// Subscribe registers a new notification channel. Subscriptions live for the
// process lifetime; there is no unsubscribe path.
func (a *authHTTP) Subscribe() <-chan Change {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := make(chan Change, 8)
	a.subs = append(a.subs, ch)
	return ch
}

// publish fans a change out to all subscribers without blocking; a subscriber
// that has fallen behind misses the event rather than stalling auth calls.
func (a *authHTTP) publish(c Change) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, ch := range a.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
