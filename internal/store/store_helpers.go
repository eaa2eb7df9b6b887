package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const movieColumns = `id, title, year, imdb_id, justwatch_id, platforms,
    justwatch_rating, letterboxd_slug, letterboxd_rating, genres,
    letterboxd_url, cached_at, last_accessed`

// timestampLayout fixes the fractional-second width at nine digits.
// RFC3339Nano trims trailing zeros, which breaks lexicographic comparison
// of stored timestamps in SQL; fixed-width UTC strings order correctly.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(scanner rowScanner) (*MatchedMovie, error) {
	var (
		movie            MatchedMovie
		imdbID           sql.NullString
		justwatchID      sql.NullString
		platformsJSON    sql.NullString
		justwatchRating  sql.NullFloat64
		letterboxdSlug   sql.NullString
		letterboxdRating sql.NullFloat64
		genresJSON       sql.NullString
		letterboxdURL    sql.NullString
		cachedAt         string
		lastAccessed     string
	)

	err := scanner.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		&imdbID,
		&justwatchID,
		&platformsJSON,
		&justwatchRating,
		&letterboxdSlug,
		&letterboxdRating,
		&genresJSON,
		&letterboxdURL,
		&cachedAt,
		&lastAccessed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movie row: %w", err)
	}

	movie.IMDbID = imdbID.String
	movie.JustWatchID = justwatchID.String
	movie.LetterboxdSlug = letterboxdSlug.String
	movie.LetterboxdURL = letterboxdURL.String
	if justwatchRating.Valid {
		v := justwatchRating.Float64
		movie.JustWatchRating = &v
	}
	if letterboxdRating.Valid {
		v := letterboxdRating.Float64
		movie.LetterboxdRating = &v
	}

	if movie.Platforms, err = unmarshalStrings(platformsJSON); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	if movie.Genres, err = unmarshalStrings(genresJSON); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}

	if movie.CachedAt, err = time.Parse(time.RFC3339Nano, cachedAt); err != nil {
		return nil, fmt.Errorf("parse cached_at: %w", err)
	}
	if movie.LastAccessed, err = time.Parse(time.RFC3339Nano, lastAccessed); err != nil {
		return nil, fmt.Errorf("parse last_accessed: %w", err)
	}

	return &movie, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func marshalStrings(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalStrings(value sql.NullString) ([]string, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(value.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseTimestamp(value sql.NullString) (time.Time, bool) {
	if !value.Valid || value.String == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
