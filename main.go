// Package main is the entry point for the Shopfront CLI application.
// It provides a terminal storefront client over a hosted backend.
package main

import (
	"shopfront/cli/cmd"
)

// main is the entry point for the Shopfront CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
