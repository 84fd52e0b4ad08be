// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"shopfront/cli/internal/diag"
	"shopfront/cli/internal/dsn"
	"shopfront/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// diagCmd connects straight to the storefront database and verifies that the
// tables this client depends on exist with the expected columns.
var diagCmd = &cobra.Command{
	Use:     "diag",
	Aliases: []string{"dbinfo"},
	Short:   "Check the storefront database schema",
	Long: `The diag command connects directly to the storefront's Postgres database and
verifies the schema: every table the client reads or writes must exist and
carry the columns the client uses.

The DSN is taken from SHOPFRONT_DSN or DATABASE_URL, falling back to the
connection saved by 'shopfront connect'.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		raw, source, err := dsn.Resolve()
		if err != nil {
			if errors.Is(err, dsn.ErrNotConfigured) {
				fmt.Println("No database connection configured.")
				fmt.Println("Run 'shopfront connect' or set SHOPFRONT_DSN.")
				return err
			}
			return err
		}

		normalized, err := dsn.Parse(raw)
		if err != nil {
			return err
		}
		fmt.Printf("Using connection from %s: %s\n", source, logging.Mask(normalized))

		stop := startInlineSpinner(os.Stdout, "Connecting")
		pool, err := diag.Connect(ctx, normalized)
		stop()
		if err != nil {
			fmt.Println(logging.PresentError("database connection failed", err))
			return err
		}
		defer pool.Close()

		stop = startInlineSpinner(os.Stdout, "Inspecting schema")
		reports, err := diag.NewInspector(pool).Check(ctx)
		stop()
		if err != nil {
			fmt.Println(logging.PresentError("schema inspection failed", err))
			return err
		}

		allOK := true
		data := pterm.TableData{{"Table", "Status"}}
		for _, r := range reports {
			switch {
			case !r.Present:
				allOK = false
				data = append(data, []string{r.Table, "❌ missing"})
			case len(r.MissingColumns) > 0:
				allOK = false
				data = append(data, []string{r.Table, "⚠️  missing columns: " + strings.Join(r.MissingColumns, ", ")})
			default:
				data = append(data, []string{r.Table, "✅ ok"})
			}
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}

		if !allOK {
			return fmt.Errorf("schema check failed")
		}
		pterm.Println("✅ All storefront tables look good")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagCmd)
}
