package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelsync/internal/config"
	"reelsync/internal/textutil"
)

// Store manages movie persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the movie database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Put upserts a movie keyed on (normalized title, year). An existing row
// with the same key is overwritten wholesale; cached_at and last_accessed
// are set to the current time.
func (s *Store) Put(ctx context.Context, movie MatchedMovie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("put movie: %w", err)
	}

	now := formatTimestamp(time.Now())
	platformsJSON, err := marshalStrings(movie.Platforms)
	if err != nil {
		return fmt.Errorf("marshal platforms: %w", err)
	}
	genresJSON, err := marshalStrings(movie.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}

	err = s.execWithoutResultRetry(ctx, `
        INSERT INTO movies (
            title, title_key, year, imdb_id, justwatch_id, platforms,
            justwatch_rating, letterboxd_slug, letterboxd_rating,
            genres, letterboxd_url, cached_at, last_accessed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(title_key, year) DO UPDATE SET
            title = excluded.title,
            imdb_id = excluded.imdb_id,
            justwatch_id = excluded.justwatch_id,
            platforms = excluded.platforms,
            justwatch_rating = excluded.justwatch_rating,
            letterboxd_slug = excluded.letterboxd_slug,
            letterboxd_rating = excluded.letterboxd_rating,
            genres = excluded.genres,
            letterboxd_url = excluded.letterboxd_url,
            cached_at = excluded.cached_at,
            last_accessed = excluded.last_accessed`,
		movie.Title,
		textutil.NormalizeTitle(movie.Title),
		movie.Year,
		nullableString(movie.IMDbID),
		nullableString(movie.JustWatchID),
		platformsJSON,
		movie.JustWatchRating,
		nullableString(movie.LetterboxdSlug),
		movie.LetterboxdRating,
		genresJSON,
		nullableString(movie.LetterboxdURL),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("put movie %q: %w", movie.Title, err)
	}
	return nil
}

// PutMany applies Put to each movie. The batch is not atomic: every upsert
// is independently durable and the first failure aborts the remainder.
func (s *Store) PutMany(ctx context.Context, movies []MatchedMovie) error {
	for i := range movies {
		if err := s.Put(ctx, movies[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByIMDbID looks up a movie by IMDb ID. A row older than maxAge is
// treated as not found. A successful read bumps last_accessed.
func (s *Store) GetByIMDbID(ctx context.Context, imdbID string, maxAge time.Duration) (*MatchedMovie, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE imdb_id = ? ORDER BY cached_at DESC LIMIT 1`,
		imdbID,
	)
	return s.freshMovie(ctx, row, maxAge)
}

// GetByTitle looks up a movie by its normalized title. A row older than
// maxAge is treated as not found. A successful read bumps last_accessed.
func (s *Store) GetByTitle(ctx context.Context, title string, maxAge time.Duration) (*MatchedMovie, error) {
	key := textutil.NormalizeTitle(title)
	if key == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE title_key = ? ORDER BY cached_at DESC LIMIT 1`,
		key,
	)
	return s.freshMovie(ctx, row, maxAge)
}

// DeleteByIMDbID removes rows carrying the given IMDb ID. Deleting an
// absent key is a no-op.
func (s *Store) DeleteByIMDbID(ctx context.Context, imdbID string) error {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil
	}
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM movies WHERE imdb_id = ?`, imdbID); err != nil {
		return fmt.Errorf("delete by imdb id: %w", err)
	}
	return nil
}

// DeleteByTitle removes rows whose normalized title matches. Deleting an
// absent key is a no-op.
func (s *Store) DeleteByTitle(ctx context.Context, title string) error {
	key := textutil.NormalizeTitle(title)
	if key == "" {
		return nil
	}
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM movies WHERE title_key = ?`, key); err != nil {
		return fmt.Errorf("delete by title: %w", err)
	}
	return nil
}

// SweepExpired deletes every row whose cached_at is older than maxAge and
// returns the number of rows removed.
func (s *Store) SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := formatTimestamp(time.Now().Add(-maxAge))
	res, err := s.execWithRetry(ctx, `DELETE FROM movies WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep expired rows affected: %w", err)
	}
	return removed, nil
}

// ListByPlatform returns every movie available on the named platform. This
// is the previous-snapshot source for change detection.
func (s *Store) ListByPlatform(ctx context.Context, platform string) ([]MatchedMovie, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, errors.New("platform name required")
	}

	// Platforms are stored as a JSON array; the LIKE filter narrows the scan
	// and HasPlatform confirms exact membership after decoding.
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE platforms LIKE ? ORDER BY title_key, year`,
		`%"`+platform+`"%`,
	)
	if err != nil {
		return nil, fmt.Errorf("list by platform: %w", err)
	}
	defer rows.Close()

	var movies []MatchedMovie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		if movie.HasPlatform(platform) {
			movies = append(movies, *movie)
		}
	}
	return movies, rows.Err()
}

// Clear removes every row from the store.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM movies`); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

// CacheStats reports the row count and the age range of cached entries.
func (s *Store) CacheStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM movies`).Scan(&stats.Count); err != nil {
		return Stats{}, fmt.Errorf("store stats: %w", err)
	}

	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(cached_at), MAX(cached_at) FROM movies`,
	).Scan(&oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("store stats range: %w", err)
	}
	if ts, ok := parseTimestamp(oldest); ok {
		stats.Oldest = &ts
	}
	if ts, ok := parseTimestamp(newest); ok {
		stats.Newest = &ts
	}
	return stats, nil
}

// freshMovie applies the expiry check and access-time bump shared by the
// lookup paths. Expired rows are reported as a miss, not an error.
func (s *Store) freshMovie(ctx context.Context, row *sql.Row, maxAge time.Duration) (*MatchedMovie, error) {
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if time.Since(movie.CachedAt) >= maxAge {
		return nil, nil
	}

	now := time.Now().UTC()
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE movies SET last_accessed = ? WHERE id = ?`,
		formatTimestamp(now), movie.ID,
	); err != nil {
		return nil, fmt.Errorf("bump last accessed: %w", err)
	}
	movie.LastAccessed = now
	return movie, nil
}
