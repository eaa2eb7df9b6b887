package config

import (
	"os"
	"path/filepath"
)

// Default returns the repository default configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		Paths: Paths{
			DataDir: filepath.Join(home, ".local", "share", "reelsync"),
			LogDir:  filepath.Join(home, ".local", "share", "reelsync", "logs"),
			APIBind: "127.0.0.1:7878",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Provider: Provider{
			Name:           "Netflix",
			Country:        "us",
			CatalogBaseURL: "https://www.justwatch.com",
		},
		Letterboxd: Letterboxd{
			BaseURL: "https://letterboxd.com",
		},
		Cache: Cache{
			MaxAgeHours:   48,
			SweepAgeHours: 168,
		},
		Sync: Sync{
			IntervalMinutes:    1440,
			ResolvePaceSeconds: 2,
			PagePaceSeconds:    1,
			RunOnStart:         false,
		},
	}
}
