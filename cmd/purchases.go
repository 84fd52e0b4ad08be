// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// purchasesCmd lists the signed-in user's purchase history, newest first.
var purchasesCmd = &cobra.Command{
	Use:     "purchases",
	Aliases: []string{"orders", "history"},
	Short:   "Show your purchase history",

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if !app.guard("/purchases") {
			return nil
		}

		stop := startInlineSpinner(os.Stdout, "Loading purchases")
		app.cart.FetchPurchases(ctx)
		stop()

		purchases := app.cart.Purchases()
		if len(purchases) == 0 {
			pterm.Println("No purchases yet. Browse 'shopfront products' to get started.")
			return nil
		}

		data := pterm.TableData{{"Order", "Date", "Items", "Total", "Status"}}
		for _, p := range purchases {
			data = append(data, []string{
				fmt.Sprintf("%d", p.ID),
				p.Date,
				strings.Join(p.Items, ", "),
				fmt.Sprintf("%.2f", p.Total),
				p.Status,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(purchasesCmd)
}
