package main

import (
	"log/slog"
	"time"

	"reelsync/internal/config"
	"reelsync/internal/identity"
	"reelsync/internal/logging"
	"reelsync/internal/missinglog"
	"reelsync/internal/services/justwatch"
	"reelsync/internal/services/letterboxd"
	"reelsync/internal/store"
	"reelsync/internal/syncer"
)

// commandContext lazily loads configuration and shared collaborators so
// subcommands stay small. Nothing is opened until a command asks for it.
type commandContext struct {
	configFlag *string

	cfg    *config.Config
	logger *slog.Logger
	st     *store.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) ensureStore() (*store.Store, error) {
	if c.st != nil {
		return c.st, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	c.st = st
	return st, nil
}

// buildSyncer wires a full orchestrator from configuration: scraper,
// rating client, resolver, missing log, and store.
func (c *commandContext) buildSyncer() (*syncer.Syncer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}

	ratings, err := letterboxd.New(cfg.Letterboxd.BaseURL)
	if err != nil {
		return nil, err
	}
	fetcher, err := justwatch.New(
		cfg.Provider.CatalogBaseURL,
		cfg.Provider.Country,
		cfg.Provider.Name,
		logger,
		justwatch.WithPagePace(time.Duration(cfg.Sync.PagePaceSeconds)*time.Second),
	)
	if err != nil {
		return nil, err
	}
	missing, err := missinglog.New(cfg.MissingLogPath())
	if err != nil {
		return nil, err
	}
	resolver := identity.NewResolver(ratings, cfg.Provider.Name, logger)

	return syncer.New(
		st,
		resolver,
		fetcher,
		missing,
		cfg.Provider.Name,
		time.Duration(cfg.Sync.ResolvePaceSeconds)*time.Second,
		logger,
	)
}

func (c *commandContext) close() {
	if c.st != nil {
		_ = c.st.Close()
		c.st = nil
	}
}
