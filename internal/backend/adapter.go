// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with
// the hosted backend-as-a-service the storefront runs on. The platform exposes a
// GoTrue-style auth API and a PostgREST-style table API; this package defines the
// contract the rest of the CLI depends on and the HTTP implementations of both.
// Implementations may call the real endpoints or provide fakes for tests.
package backend

import "context"

// Auth defines the auth subsystem operations the CLI consumes.
type Auth interface {
	// GetUser retrieves the identity owning the access token.
	GetUser(ctx context.Context, accessToken string) (*User, error)
	// SignInWithPassword exchanges email/password credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp registers a new account. The returned session may carry no tokens
	// when the backend requires email confirmation first.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	// SignOut invalidates the access token on the backend.
	SignOut(ctx context.Context, accessToken string) error
	// RefreshSession exchanges a refresh token for a new session.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	// Subscribe returns a stream of identity-change notifications. The
	// subscription lives for the process lifetime; there is no unsubscribe.
	Subscribe() <-chan Change
}

// Tables defines the row operations the storefront issues against the remote
// tables. All reads and writes are additionally filtered server-side by the
// row-owning user; the explicit user filters here mirror that, they do not
// replace it.
type Tables interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductRow, error)
	ListCartItems(ctx context.Context, userID string) ([]CartItemRow, error)
	// FindCartItem returns the cart line for (user, product), or nil when absent.
	FindCartItem(ctx context.Context, userID string, productID int64) (*CartItemRow, error)
	InsertCartItem(ctx context.Context, userID string, productID int64, quantity int) (*CartItemRow, error)
	UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) (*CartItemRow, error)
	DeleteCartItem(ctx context.Context, id int64) error
	DeleteCartItems(ctx context.Context, ids []int64) error
	InsertPurchase(ctx context.Context, userID string, totalAmount float64, status string) (*PurchaseRow, error)
	InsertPurchaseItems(ctx context.Context, items []PurchaseItemInsert) error
	// ListPurchases returns purchase headers with their lines, newest first.
	ListPurchases(ctx context.Context, userID string) ([]PurchaseRow, error)
}

// TokenProvider supplies the current access token for table requests.
// It returns an empty string when no session is stored.
type TokenProvider func() string

// Client bundles the auth and table subsystems of one backend.
type Client struct {
	Auth   Auth
	Tables Tables
}

// New creates a backend client for the given base URL and API key.
// tokens supplies the bearer token attached to table requests; it may be nil
// for anonymous access (e.g. public product listings).
func New(baseURL, apiKey string, tokens TokenProvider) *Client {
	h := newHTTP(baseURL, apiKey)
	return &Client{
		Auth:   newAuthHTTP(h),
		Tables: newRestHTTP(h, tokens),
	}
}
