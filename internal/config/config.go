package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Provider describes the streaming catalog being synchronized.
type Provider struct {
	Name           string `toml:"name"`
	Country        string `toml:"country"`
	CatalogBaseURL string `toml:"catalog_base_url"`
}

// Letterboxd contains configuration for the rating service client.
type Letterboxd struct {
	BaseURL string `toml:"base_url"`
}

// Cache contains retention settings for the persistent movie store.
type Cache struct {
	MaxAgeHours   int `toml:"max_age_hours"`
	SweepAgeHours int `toml:"sweep_age_hours"`
}

// Sync contains timing settings for catalog synchronization cycles.
type Sync struct {
	IntervalMinutes    int  `toml:"interval_minutes"`
	ResolvePaceSeconds int  `toml:"resolve_pace_seconds"`
	PagePaceSeconds    int  `toml:"page_pace_seconds"`
	RunOnStart         bool `toml:"run_on_start"`
}

// Config centralizes every setting the daemon and CLI need.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
	Provider   Provider   `toml:"provider"`
	Letterboxd Letterboxd `toml:"letterboxd"`
	Cache      Cache      `toml:"cache"`
	Sync       Sync       `toml:"sync"`
}

// DefaultConfigPath returns the canonical location of the config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.toml")
	}
	return filepath.Join(home, ".config", "reelsync", "config.toml")
}

// Load reads configuration from path, falling back to the default location
// when path is empty. A missing file yields repository defaults. The
// resolved path is returned alongside the config.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultConfigPath()
	}
	resolved = ExpandPath(resolved)

	cfg := Default()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.normalize()
			if vErr := cfg.Validate(); vErr != nil {
				return nil, resolved, vErr
			}
			return &cfg, resolved, nil
		}
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, err
	}
	return &cfg, resolved, nil
}

// WriteSample writes the annotated sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	path = ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return errors.New("config path required")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data and log directories if absent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the movie store database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "movies.db")
}

// MissingLogPath returns the location of the missing-match log.
func (c *Config) MissingLogPath() string {
	return filepath.Join(c.Paths.LogDir, "missing_letterboxd.log")
}

// LockPath returns the advisory lock file guarding sync cycles for the
// configured provider.
func (c *Config) LockPath() string {
	name := strings.ToLower(strings.TrimSpace(c.Provider.Name))
	if name == "" {
		name = "provider"
	}
	return filepath.Join(c.Paths.DataDir, "sync-"+name+".lock")
}

// ExpandPath resolves a leading tilde against the user's home directory.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) normalize() {
	c.Paths.DataDir = ExpandPath(c.Paths.DataDir)
	c.Paths.LogDir = ExpandPath(c.Paths.LogDir)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Provider.Name = strings.TrimSpace(c.Provider.Name)
	c.Provider.Country = strings.ToLower(strings.TrimSpace(c.Provider.Country))
	c.Provider.CatalogBaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.CatalogBaseURL), "/")
	c.Letterboxd.BaseURL = strings.TrimRight(strings.TrimSpace(c.Letterboxd.BaseURL), "/")
}
