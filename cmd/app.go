package cmd

import (
	"context"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/config"
	"shopfront/cli/internal/nav"
	"shopfront/cli/internal/session"
	"shopfront/cli/internal/store"

	"github.com/pterm/pterm"
)

// app bundles the wired-up stores every command works with.
type app struct {
	backend    *backend.Client
	backendURL string
	session    *session.Store
	cart       *store.Cart
}

// newApp builds the backend client from the environment (failing fast when
// the endpoint or key is missing), initializes the session, and wires the
// cart store. Session initialization swallows fetch failures; a broken
// network means "not logged in", not a startup error.
func newApp(ctx context.Context) (*app, error) {
	be, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	tokens := session.KeychainTokens{}
	client := backend.New(be.URL, be.Key, tokens.AccessToken)
	sess := session.New(client.Auth, tokens)
	sess.Initialize(ctx)

	return &app{
		backend:    client,
		backendURL: be.URL,
		session:    sess,
		cart:       store.New(client.Tables, sess),
	}, nil
}

// guard consults the navigation guard for the target view. When the
// transition is denied it prints the login hint and returns false; the
// command should then return without touching the backend.
func (a *app) guard(target string) bool {
	d := nav.Guard(target, a.session.IsLoggedIn())
	if d.Allowed {
		return true
	}
	pterm.Println("🔒 You're not logged in yet!")
	pterm.Printf("   Run 'shopfront login' to continue to %s\n", d.RedirectTo)
	return false
}
