package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"reelsync/internal/config"
	"reelsync/internal/daemon"
	"reelsync/internal/identity"
	"reelsync/internal/logging"
	"reelsync/internal/missinglog"
	"reelsync/internal/services/justwatch"
	"reelsync/internal/services/letterboxd"
	"reelsync/internal/store"
	"reelsync/internal/syncer"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open movie store", logging.Error(err))
		return
	}
	defer st.Close()

	sy, err := buildSyncer(cfg, st, logger)
	if err != nil {
		logger.Error("build syncer", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, st, sy, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon stopped with error", logging.Error(err))
		return
	}
	logger.Info("reelsyncd shutting down")
}

func buildSyncer(cfg *config.Config, st *store.Store, logger *slog.Logger) (*syncer.Syncer, error) {
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
