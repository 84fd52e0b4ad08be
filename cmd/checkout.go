// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"shopfront/cli/internal/errors"
	"shopfront/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// checkoutCmd turns cart lines into a purchase. With no arguments every line
// is bought; otherwise only the named item ids.
var checkoutCmd = &cobra.Command{
	Use:     "checkout [item-id ...]",
	Aliases: []string{"buy"},
	Short:   "Purchase items from your cart",
	Long: `The checkout command creates a purchase from your cart. Without arguments
the whole cart is bought; pass item ids to buy a subset. Bought lines are
removed from the cart.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if !app.guard("/cart") {
			return nil
		}

		stop := startInlineSpinner(os.Stdout, "Loading cart")
		app.cart.FetchCart(ctx)
		stop()

		items := app.cart.Items()
		if len(items) == 0 {
			pterm.Println("Your cart is empty; nothing to buy.")
			return nil
		}

		var ids []int64
		if len(args) == 0 {
			for _, item := range items {
				ids = append(ids, item.ID)
			}
		} else {
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("item id must be a number, got %q", arg)
				}
				ids = append(ids, id)
			}
		}

		stop = startInlineSpinner(os.Stdout, "Placing order")
		err = app.cart.Checkout(ctx, ids)
		stop()
		if err != nil {
			if errors.Is(err, errors.NothingSelected) {
				pterm.Println("None of those ids are in your cart.")
				return err
			}
			fmt.Println(logging.PresentError("checkout failed", err))
			return err
		}

		pterm.Println("✅ Order placed! It will show up under 'shopfront purchases' as pending.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
