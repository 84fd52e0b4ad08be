// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	productsCategory string
	productsSearch   string
)

// productsCmd lists the product catalog, optionally narrowed by category or
// a name search. Browsing needs no session.
var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"browse"},
	Short:   "Browse the product catalog",
	Long: `The products command lists the storefront catalog. Narrow the listing with
--category or --search; both can be combined.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stdout, "Loading catalog")
		rows, err := app.backend.Tables.ListProducts(ctx, backend.ProductFilter{
			Category: productsCategory,
			Search:   productsSearch,
		})
		stop()
		if err != nil {
			host := httperrors.ExtractHostFromURL(app.backendURL)
			return httperrors.FormatNetworkError(err, "loading the catalog from "+host)
		}

		if len(rows) == 0 {
			pterm.Println("No products matched.")
			return nil
		}

		data := pterm.TableData{{"ID", "Name", "Price", "Category", "Description"}}
		for _, p := range rows {
			data = append(data, []string{
				fmt.Sprintf("%d", p.ID),
				p.Name,
				fmt.Sprintf("%.2f", p.Price),
				p.Category,
				truncate(p.Description, 48),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

// truncate shortens s for table display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Only show products in this category")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Only show products whose name matches")
}
