package cmd

import (
	"fmt"

	"shopfront/cli/internal/session"

	"github.com/spf13/cobra"
)

// whoamiCmd displays the currently authenticated account. It consults the
// local session snapshot first and falls back to a fresh identity fetch when
// the snapshot is empty.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me", "account"},
	Short:   "Show current authenticated account",
	Long: `The whoami command shows which account is currently signed in. It validates
the stored session against the backend and falls back to the locally saved
snapshot when the backend is unreachable.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := session.Load()
		if err != nil || !st.LoggedIn {
			printNotLoggedIn()
			return nil
		}

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if u := app.session.User(); u != nil {
			fmt.Printf("👤 Current user: %s\n", u.Email)
			return nil
		}

		// Explicit re-fetch; unlike initialization this surfaces failures,
		// but here a failure just means we fall back to the snapshot.
		if err := app.session.FetchUser(ctx); err == nil {
			if u := app.session.User(); u != nil {
				fmt.Printf("👤 Current user: %s\n", u.Email)
				return nil
			}
		}

		if st.Account != "" {
			fmt.Printf("👤 Current user: %s (cached)\n", st.Account)
			return nil
		}

		_ = app.guard("/account")
		return nil
	},
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'shopfront login' to get started.")
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
