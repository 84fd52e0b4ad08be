package config

import (
	"testing"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		key     string
		wantURL string
		wantErr bool
	}{
		{
			name:    "both present",
			url:     "https://xyz.supabase.co",
			key:     "anon-key",
			wantURL: "https://xyz.supabase.co",
		},
		{
			name:    "trailing slash trimmed",
			url:     "https://xyz.supabase.co/",
			key:     "anon-key",
			wantURL: "https://xyz.supabase.co",
		},
		{
			name:    "missing url",
			url:     "",
			key:     "anon-key",
			wantErr: true,
		},
		{
			name:    "missing key",
			url:     "https://xyz.supabase.co",
			key:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only is missing",
			url:     "   ",
			key:     "anon-key",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBackendURL, tt.url)
			t.Setenv(EnvBackendKey, tt.key)

			got, err := FromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FromEnv() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FromEnv() error = %v", err)
			}
			if got.URL != tt.wantURL {
				t.Errorf("FromEnv().URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.Key != tt.key {
				t.Errorf("FromEnv().Key = %q, want %q", got.Key, tt.key)
			}
		})
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", c.LogLevel, "info")
	}
	if c.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", c.PageSize)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Save(Config{LogLevel: "debug", PageSize: 50}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.LogLevel != "debug" || c.PageSize != 50 {
		t.Errorf("Load() = %+v, want LogLevel=debug PageSize=50", c)
	}
}
