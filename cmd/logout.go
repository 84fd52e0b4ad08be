// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"shopfront/cli/internal/keychain"
	"shopfront/cli/internal/session"

	"github.com/spf13/cobra"
)

// logoutCmd clears authentication state. It attempts a best-effort remote
// sign-out and always removes local credentials afterwards, whatever the
// backend said.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove saved credentials",
	Long: `The logout command signs out from the storefront backend (best-effort) and
clears all authentication state from the local system:

- Access and refresh tokens in the OS keychain
- The local session snapshot`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Remote sign-out is best effort; a dead network must not trap the
		// user in a logged-in state.
		if app, err := newApp(cmd.Context()); err == nil {
			_ = app.session.SignOut(cmd.Context())
		}

		// Always clear local credentials regardless of backend response
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearAuth()
		}
		_ = session.Clear()

		fmt.Println("✅ Signed out; all saved credentials have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
