// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"shopfront/cli/internal/logging"

	"github.com/spf13/cobra"
)

// registerCmd creates a new storefront account. Depending on backend
// configuration the account may need email confirmation before the first
// sign-in; the command tells the user which case they hit.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new storefront account",
	Long: `The register command creates a new account with your email and password.
When the backend requires email confirmation, a confirmation link is sent to
your inbox and login becomes possible once you follow it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stdout, "Creating account")
		sess, err := app.backend.Auth.SignUp(ctx, email, password)
		stop()
		if err != nil {
			fmt.Println(logging.PresentError("registration failed", err))
			return err
		}

		if sess.AccessToken == "" {
			fmt.Printf("📬 Almost there! Check %s for a confirmation link, then run 'shopfront login'.\n", email)
			return nil
		}

		fmt.Printf("✅ Account created. Run 'shopfront login' to sign in as %s.\n", email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
