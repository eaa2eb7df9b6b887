package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the rest of the system
// cannot work with. It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("config: paths.data_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("config: paths.log_dir is required")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Provider.Name == "" {
		return errors.New("config: provider.name is required")
	}
	if c.Provider.CatalogBaseURL == "" {
		return errors.New("config: provider.catalog_base_url is required")
	}
	if c.Letterboxd.BaseURL == "" {
		return errors.New("config: letterboxd.base_url is required")
	}
	if c.Cache.MaxAgeHours < 0 {
		return fmt.Errorf("config: cache.max_age_hours must not be negative, got %d", c.Cache.MaxAgeHours)
	}
	if c.Cache.SweepAgeHours <= 0 {
		return fmt.Errorf("config: cache.sweep_age_hours must be positive, got %d", c.Cache.SweepAgeHours)
	}
	if c.Sync.IntervalMinutes <= 0 {
		return fmt.Errorf("config: sync.interval_minutes must be positive, got %d", c.Sync.IntervalMinutes)
	}
	if c.Sync.ResolvePaceSeconds < 0 {
		return fmt.Errorf("config: sync.resolve_pace_seconds must not be negative, got %d", c.Sync.ResolvePaceSeconds)
	}
	if c.Sync.PagePaceSeconds < 0 {
		return fmt.Errorf("config: sync.page_pace_seconds must not be negative, got %d", c.Sync.PagePaceSeconds)
	}
	return nil
}
