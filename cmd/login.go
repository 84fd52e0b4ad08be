// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/keychain"
	"shopfront/cli/internal/logging"
	"shopfront/cli/internal/terminal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd signs the user in with email and password. Tokens are stored in
// the OS keychain and a session snapshot is kept so later commands can greet
// the user without a round-trip.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to the storefront",
	Long: `The login command authenticates against the storefront backend with your
email and password. On success the issued tokens are stored securely in the
OS keychain and used by all subsequent commands.

If already logged in with a valid session, the command short-circuits.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		baseCtx := cmd.Context()
		ctx, cancel := context.WithTimeout(baseCtx, 2*time.Minute)
		defer cancel()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if app.session.IsLoggedIn() {
			if u := app.session.User(); u != nil {
				fmt.Printf("Already logged in as %s\n", u.Email)
			}
			return nil
		}

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stdout, "Signing in")
		user, err := app.session.SignIn(ctx, email, password)
		stop()
		if err != nil {
			if errors.Is(err, backend.ErrUnauthorized) {
				fmt.Println("❌ Invalid email or password")
				// Drop any stale tokens so the next attempt starts clean
				_ = keychain.MustGetManager().ClearAuth()
				return err
			}
			fmt.Println(logging.PresentError("login failed", err))
			return err
		}

		fmt.Printf("✅ Welcome back, %s!\n", user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// promptCredentials reads the email and password from the terminal. The
// password is read without echo; both prompt lines are cleared afterwards so
// nothing sensitive lingers on screen.
func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	emailPrompt := "Email: "
	fmt.Print(emailPrompt)
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", errors.New("email is required")
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	if len(pw) == 0 {
		return "", "", errors.New("password is required")
	}

	terminal.ClearPreviousLines(len(emailPrompt) + len(email))
	return email, string(pw), nil
}
