package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/store"
	"reelsync/internal/syncer"
)

// ErrLockHeld is returned when another process holds the provider sync lock.
var ErrLockHeld = errors.New("sync lock held by another process")

// Daemon schedules periodic sync cycles and serves the HTTP API.
type Daemon struct {
	cfg    *config.Config
	store  *store.Store
	syncer *syncer.Syncer
	logger *slog.Logger
	lock   *flock.Flock
	api    *apiServer

	mu        sync.Mutex
	lastStats *syncer.Stats
	lastErr   error
	lastRun   time.Time
}

// New creates a daemon. The API server is configured but not started until
// Run is called.
func New(cfg *config.Config, st *store.Store, sy *syncer.Syncer, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || sy == nil {
		return nil, errors.New("daemon requires config, store, and syncer")
	}
	d := &Daemon{
		cfg:    cfg,
		store:  st,
		syncer: sy,
		logger: logging.NewComponentLogger(logger, "daemon"),
		lock:   flock.New(cfg.LockPath()),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Run blocks until ctx is cancelled, triggering a sync cycle every
// configured interval. With run_on_start enabled the first cycle fires
// immediately instead of waiting a full interval.
func (d *Daemon) Run(ctx context.Context) error {
	if d.api != nil {
		if err := d.api.start(ctx); err != nil {
			return err
		}
	}

	interval := time.Duration(d.cfg.Sync.IntervalMinutes) * time.Minute
	d.logger.Info("scheduler started",
		logging.String(logging.FieldProvider, d.cfg.Provider.Name),
		logging.Duration("interval", interval),
		logging.Bool("run_on_start", d.cfg.Sync.RunOnStart))

	if d.cfg.Sync.RunOnStart {
		d.runScheduled(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			d.runScheduled(ctx)
		}
	}
}

func (d *Daemon) runScheduled(ctx context.Context) {
	stats, err := d.RunCycle(ctx)
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, ErrLockHeld):
		d.logger.Warn("skipping scheduled sync, lock held elsewhere")
	case err != nil:
		d.logger.Error("scheduled sync failed", logging.Error(err))
	default:
		d.logger.Info("scheduled sync finished",
			logging.String(logging.FieldRunID, stats.RunID),
			logging.Int("matched", stats.Matched),
			logging.Int("missing", stats.Missing))
	}
}

// RunCycle takes the provider advisory lock, runs one sync cycle, then
// sweeps rows past the retention window. Lock contention from another
// process surfaces as ErrLockHeld.
func (d *Daemon) RunCycle(ctx context.Context) (*syncer.Stats, error) {
	locked, err := d.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !locked {
		return nil, ErrLockHeld
	}
	defer func() {
		if unlockErr := d.lock.Unlock(); unlockErr != nil {
			d.logger.Warn("release sync lock failed", logging.Error(unlockErr))
		}
	}()

	stats, err := d.syncer.Sync(ctx)
	d.mu.Lock()
	d.lastRun = time.Now().UTC()
	d.lastStats = stats
	d.lastErr = err
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sweepAge := time.Duration(d.cfg.Cache.SweepAgeHours) * time.Hour
	removed, err := d.store.SweepExpired(ctx, sweepAge)
	if err != nil {
		d.logger.Warn("expiry sweep failed", logging.Error(err))
	} else if removed > 0 {
		d.logger.Info("expiry sweep removed stale rows", logging.Int64("removed", removed))
	}

	return stats, nil
}

func (d *Daemon) missingLines() ([]string, error) {
	return d.syncer.MissingLines()
}

// lastOutcome returns the most recent cycle result under the daemon lock.
func (d *Daemon) lastOutcome() (*syncer.Stats, time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastStats, d.lastRun, d.lastErr
}
