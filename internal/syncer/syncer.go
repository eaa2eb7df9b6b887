package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"reelsync/internal/catalog"
	"reelsync/internal/identity"
	"reelsync/internal/logging"
	"reelsync/internal/missinglog"
	"reelsync/internal/services/justwatch"
	"reelsync/internal/store"
)

// ErrSyncInProgress is returned when a cycle is requested while another one
// is still running on the same Syncer.
var ErrSyncInProgress = errors.New("sync cycle already in progress")

// Resolver matches one catalog entry against the rating service.
type Resolver interface {
	Resolve(ctx context.Context, entry catalog.Entry) identity.Outcome
}

// Stats reports the aggregate outcome of one sync cycle.
type Stats struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	New            int       `json:"new"`
	Removed        int       `json:"removed"`
	Retained       int       `json:"retained"`
	Matched        int       `json:"matched"`
	Missing        int       `json:"missing"`
	Total          int       `json:"total"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
}

// Status reports the persisted view between cycles.
type Status struct {
	CacheStats     store.Stats `json:"cache_stats"`
	MissingCount   int         `json:"missing_count"`
	MissingLogPath string      `json:"missing_log_path"`
}

// Syncer orchestrates catalog synchronization. All collaborators are
// injected at construction; there is no process-wide implicit state.
type Syncer struct {
	store       *store.Store
	resolver    Resolver
	fetcher     justwatch.Snapshotter
	missing     *missinglog.Log
	platform    string
	resolvePace time.Duration
	logger      *slog.Logger
	running     atomic.Bool
}

// New creates a Syncer. resolvePace is the mandatory pause between
// consecutive Letterboxd lookups.
func New(
	st *store.Store,
	resolver Resolver,
	fetcher justwatch.Snapshotter,
	missing *missinglog.Log,
	platform string,
	resolvePace time.Duration,
	logger *slog.Logger,
) (*Syncer, error) {
	if st == nil {
		return nil, errors.New("store required")
	}
	if resolver == nil {
		return nil, errors.New("resolver required")
	}
	if fetcher == nil {
		return nil, errors.New("catalog fetcher required")
	}
	if missing == nil {
		return nil, errors.New("missing log required")
	}
	if platform == "" {
		return nil, errors.New("platform name required")
	}
	return &Syncer{
		store:       st,
		resolver:    resolver,
		fetcher:     fetcher,
		missing:     missing,
		platform:    platform,
		resolvePace: resolvePace,
		logger:      logging.NewComponentLogger(logger, "syncer"),
	}, nil
}

// Sync runs one full cycle: fetch, diff, resolve new entries, persist,
// evict removed entries, and report statistics. A total fetch failure
// aborts the cycle before any mutation; per-entry resolution failures are
// absorbed into the missing count.
func (s *Syncer) Sync(ctx context.Context) (*Stats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldProvider, s.platform),
	)

	logger.Info("starting catalog sync")

	current, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		logger.Error("catalog fetch failed, aborting cycle",
			logging.String(logging.FieldPhase, "fetching"),
			logging.Error(err))
		return nil, fmt.Errorf("fetch catalog snapshot: %w", err)
	}
	logger.Info("fetched catalog snapshot",
		logging.String(logging.FieldPhase, "fetching"),
		logging.Int("entries", len(current)))

	previous, err := s.store.ListByPlatform(ctx, s.platform)
	if err != nil {
		return nil, fmt.Errorf("load previous snapshot: %w", err)
	}
	changes := catalog.Diff(current, previous)
	logger.Info("computed catalog changes",
		logging.String(logging.FieldPhase, "diffing"),
		logging.Int("new", len(changes.New)),
		logging.Int("removed", len(changes.Removed)),
		logging.Int("retained", len(changes.Retained)))

	matched, missing, err := s.resolveNew(ctx, logger, changes.New)
	if err != nil {
		return nil, err
	}

	if err := s.store.PutMany(ctx, matched); err != nil {
		logger.Error("persisting matches failed",
			logging.String(logging.FieldPhase, "persisting"),
			logging.Error(err))
		return nil, fmt.Errorf("persist matched movies: %w", err)
	}

	if err := s.evictRemoved(ctx, logger, changes.Removed); err != nil {
		return nil, err
	}

	stats := &Stats{
		RunID:          runID,
		StartedAt:      start.UTC(),
		New:            len(changes.New),
		Removed:        len(changes.Removed),
		Retained:       len(changes.Retained),
		Matched:        len(matched),
		Missing:        missing,
		Total:          len(current),
		ElapsedSeconds: time.Since(start).Seconds(),
	}
	logger.Info("sync complete",
		logging.Int("new", stats.New),
		logging.Int("removed", stats.Removed),
		logging.Int("retained", stats.Retained),
		logging.Int("matched", stats.Matched),
		logging.Int("missing", stats.Missing),
		logging.Int("total", stats.Total),
		logging.Duration("elapsed", time.Since(start)))
	return stats, nil
}

// resolveNew resolves each new entry in discovery order, pausing between
// lookups. Retained entries are never re-resolved and removed entries need
// no resolution.
func (s *Syncer) resolveNew(ctx context.Context, logger *slog.Logger, entries []catalog.Entry) ([]store.MatchedMovie, int, error) {
	var matched []store.MatchedMovie
	missing := 0

	for i, entry := range entries {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return nil, 0, err
			}
		}

		outcome := s.resolver.Resolve(ctx, entry)
		switch outcome.Kind {
		case identity.KindFull:
			matched = append(matched, outcome.Movie)
		case identity.KindPartial:
			matched = append(matched, outcome.Movie)
			if outcome.Reason == identity.ReasonRatingsMiss {
				missing++
				s.logMissing(logger, entry)
			}
		case identity.KindUnresolved:
			missing++
			s.logMissing(logger, entry)
		}

		logger.Debug("resolved catalog entry",
			logging.String(logging.FieldPhase, "resolving"),
			logging.String(logging.FieldTitle, entry.Title),
			logging.Int(logging.FieldYear, entry.Year),
			logging.String("outcome", outcome.String()))
	}

	return matched, missing, nil
}

func (s *Syncer) evictRemoved(ctx context.Context, logger *slog.Logger, removed []store.MatchedMovie) error {
	for _, movie := range removed {
		if err := s.store.DeleteByTitle(ctx, movie.Title); err != nil {
			return fmt.Errorf("evict %q: %w", movie.Title, err)
		}
		if movie.IMDbID != "" {
			if err := s.store.DeleteByIMDbID(ctx, movie.IMDbID); err != nil {
				return fmt.Errorf("evict %q by imdb id: %w", movie.Title, err)
			}
		}
	}
	if len(removed) > 0 {
		logger.Info("evicted removed titles",
			logging.String(logging.FieldPhase, "evicting"),
			logging.Int("removed", len(removed)))
	}
	return nil
}

// logMissing appends the entry to the missing-match log. An append failure
// is reported but never aborts the cycle.
func (s *Syncer) logMissing(logger *slog.Logger, entry catalog.Entry) {
	err := s.missing.Append(missinglog.Entry{
		Provider:    s.platform,
		Title:       entry.Title,
		Year:        entry.Year,
		JustWatchID: entry.JustWatchID,
	})
	if err != nil {
		logger.Warn("missing log append failed",
			logging.String(logging.FieldTitle, entry.Title),
			logging.Error(err))
	}
}

func (s *Syncer) pause(ctx context.Context) error {
	if s.resolvePace <= 0 {
		return nil
	}
	select {
	case <-time.After(s.resolvePace):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether a cycle is currently executing.
func (s *Syncer) Running() bool {
	return s.running.Load()
}

// MissingLines returns every recorded missing-match line, oldest first.
func (s *Syncer) MissingLines() ([]string, error) {
	return s.missing.ReadAll()
}

// Status reports cache statistics and the missing-log line count.
func (s *Syncer) Status(ctx context.Context) (*Status, error) {
	cacheStats, err := s.store.CacheStats(ctx)
	if err != nil {
		return nil, err
	}
	missingCount, err := s.missing.Count()
	if err != nil {
		return nil, err
	}
	return &Status{
		CacheStats:     cacheStats,
		MissingCount:   missingCount,
		MissingLogPath: s.missing.Path(),
	}, nil
}
