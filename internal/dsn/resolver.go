// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"errors"
	"os"
	"strings"

	"shopfront/cli/internal/keychain"
)

// Source names where a resolved DSN came from.
type Source string

const (
	SourceEnv      Source = "environment"
	SourceKeychain Source = "keychain"
)

// ErrNotConfigured is returned when no DSN is configured anywhere.
var ErrNotConfigured = errors.New("no database connection configured")

// Resolve returns the direct database DSN, preferring environment variables
// (SHOPFRONT_DSN, then DATABASE_URL) over the OS keychain.
func Resolve() (string, Source, error) {
	for _, env := range []string{"SHOPFRONT_DSN", "DATABASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, SourceEnv, nil
		}
	}

	km, err := keychain.GetManager()
	if err != nil {
		return "", "", err
	}
	stored, err := km.LoadDBDSN()
	if err != nil || strings.TrimSpace(stored) == "" {
		return "", "", ErrNotConfigured
	}
	return strings.TrimSpace(stored), SourceKeychain, nil
}
