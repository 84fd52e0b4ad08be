// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/httperrors"
	"shopfront/cli/internal/store"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// cartCmd is the cart command group. Bare `shopfront cart` lists the current
// cart; add, remove and qty mutate it. All of them sit behind the login guard.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and manage your shopping cart",
	Long: `The cart command shows your current shopping cart. Use its subcommands to
change it:

  shopfront cart add <product-id>     put one unit in the cart
  shopfront cart remove <item-id>     drop a cart line
  shopfront cart qty <item-id> <n>    set a line's quantity`,

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

		return renderCart(app.cart.Items())
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product to the cart",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if !app.guard("/cart") {
			return nil
		}

		product, err := findProduct(app, cmd, args[0])
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stdout, "Updating cart")
		app.cart.FetchCart(ctx)
		app.cart.AddItem(ctx, product)
		stop()

		fmt.Printf("🛒 Added %s\n", product.Name)
		return renderCart(app.cart.Items())
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if !app.guard("/cart") {
			return nil
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("item id must be a number, got %q", args[0])
		}

		stop := startInlineSpinner(os.Stdout, "Updating cart")
		app.cart.FetchCart(ctx)
		app.cart.RemoveItem(ctx, id)
		stop()

		return renderCart(app.cart.Items())
	},
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <item-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		if !app.guard("/cart") {
			return nil
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("item id must be a number, got %q", args[0])
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number, got %q", args[1])
		}
		// The store applies whatever it is given; bounds live here.
		if qty < 1 {
			return fmt.Errorf("quantity must be at least 1; use 'shopfront cart remove %d' to drop the line", id)
		}

		stop := startInlineSpinner(os.Stdout, "Updating cart")
		app.cart.FetchCart(ctx)
		app.cart.UpdateItemQuantity(ctx, id, qty)
		stop()

		return renderCart(app.cart.Items())
	},
}

// findProduct resolves a product id argument against the live catalog.
func findProduct(app *app, cmd *cobra.Command, arg string) (store.Product, error) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return store.Product{}, fmt.Errorf("product id must be a number, got %q", arg)
	}

	rows, err := app.backend.Tables.ListProducts(cmd.Context(), backend.ProductFilter{})
	if err != nil {
		return store.Product{}, httperrors.FormatNetworkError(err, "loading the catalog")
	}
	for _, p := range rows {
		if strconv.FormatInt(p.ID, 10) == arg {
			return store.Product{
				ID:          strconv.FormatInt(p.ID, 10),
				Name:        p.Name,
				Price:       p.Price,
				Description: p.Description,
				Category:    p.Category,
				ImageURL:    p.ImageURL,
			}, nil
		}
	}
	return store.Product{}, fmt.Errorf("no product with id %s", arg)
}

// renderCart prints the cart lines and the running total.
func renderCart(items []store.CartItem) error {
	if len(items) == 0 {
		pterm.Println("Your cart is empty.")
		return nil
	}

	var total float64
	data := pterm.TableData{{"Item", "Product", "Qty", "Price", "Subtotal"}}
	for _, item := range items {
		sub := item.Product.Price * float64(item.Quantity)
		total += sub
		data = append(data, []string{
			fmt.Sprintf("%d", item.ID),
			item.Product.Name,
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%.2f", item.Product.Price),
			fmt.Sprintf("%.2f", sub),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Printf("Total: %.2f\n", total)
	return nil
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartQtyCmd)
}
