package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsync/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Provider.Name != "Netflix" || cfg.Provider.Country != "us" {
		t.Fatalf("unexpected provider defaults: %+v", cfg.Provider)
	}
	if cfg.Cache.MaxAgeHours != 48 || cfg.Cache.SweepAgeHours != 168 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Sync.ResolvePaceSeconds != 2 {
		t.Fatalf("unexpected sync defaults: %+v", cfg.Sync)
	}
}

func TestLoadAppliesOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[provider]
name = "  Hulu  "
country = "GB"
catalog_base_url = "https://www.justwatch.com/"

[logging]
level = "DEBUG"
format = "JSON"

[cache]
max_age_hours = 12
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.Name != "Hulu" {
		t.Fatalf("provider name not trimmed: %q", cfg.Provider.Name)
	}
	if cfg.Provider.Country != "gb" {
		t.Fatalf("country not lowercased: %q", cfg.Provider.Country)
	}
	if cfg.Provider.CatalogBaseURL != "https://www.justwatch.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Provider.CatalogBaseURL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Cache.MaxAgeHours != 12 {
		t.Fatalf("override lost: %+v", cfg.Cache)
	}
	if cfg.Cache.SweepAgeHours != 168 {
		t.Fatalf("untouched field should keep its default: %+v", cfg.Cache)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"blank provider", "[provider]\nname = \"  \"\n", "provider.name"},
		{"negative retention", "[cache]\nsweep_age_hours = -1\n", "sweep_age_hours"},
		{"zero interval", "[sync]\ninterval_minutes = 0\n", "interval_minutes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if got := config.ExpandPath("~/movies"); got != filepath.Join(home, "movies") {
		t.Fatalf("ExpandPath(~/movies) = %q", got)
	}
	if got := config.ExpandPath("~"); got != home {
		t.Fatalf("ExpandPath(~) = %q", got)
	}
	if got := config.ExpandPath("/absolute/path"); got != "/absolute/path" {
		t.Fatalf("ExpandPath should pass absolute paths through, got %q", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/reelsync-data"
	cfg.Paths.LogDir = "/tmp/reelsync-logs"
	cfg.Provider.Name = "Netflix"

	if got := cfg.DatabasePath(); got != "/tmp/reelsync-data/movies.db" {
		t.Fatalf("DatabasePath = %q", got)
	}
	if got := cfg.MissingLogPath(); got != "/tmp/reelsync-logs/missing_letterboxd.log" {
		t.Fatalf("MissingLogPath = %q", got)
	}
	if got := cfg.LockPath(); got != "/tmp/reelsync-data/sync-netflix.lock" {
		t.Fatalf("LockPath = %q", got)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config must validate: %v", err)
	}
}
