// Package config loads and stores CLI configuration.
// Non-secret settings live in a JSON file in the XDG config dir; secrets go to
// the OS keychain. The backend endpoint and access key are taken from the
// environment and are required: the process fails fast at startup when either
// is missing.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shopfront/cli/internal/xdg"
)

// Environment variables holding the backend-as-a-service connection values.
const (
	EnvBackendURL = "SHOPFRONT_BACKEND_URL"
	EnvBackendKey = "SHOPFRONT_BACKEND_KEY"
)

// Backend holds the required backend-as-a-service connection values.
type Backend struct {
	// URL is the base URL of the hosted backend (e.g. "https://xyz.supabase.co").
	URL string
	// Key is the public API key sent with every request.
	Key string
}

// FromEnv reads the backend endpoint and access key from the environment.
// Both values are required; a missing value is a startup error.
func FromEnv() (Backend, error) {
	b := Backend{
		URL: strings.TrimSpace(os.Getenv(EnvBackendURL)),
		Key: strings.TrimSpace(os.Getenv(EnvBackendKey)),
	}
	if b.URL == "" || b.Key == "" {
		return Backend{}, fmt.Errorf("missing %s or %s in environment", EnvBackendURL, EnvBackendKey)
	}
	b.URL = strings.TrimRight(b.URL, "/")
	return b, nil
}

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string `json:"log_level"`
	PageSize int    `json:"page_size"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.LogLevel = "info"
			c.PageSize = 20
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
