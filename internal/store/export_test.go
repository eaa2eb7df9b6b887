package store

import (
	"context"
	"time"

	"reelsync/internal/textutil"
)

// FormatTimestamp exposes the storage timestamp format to tests.
var FormatTimestamp = formatTimestamp

// Backdate rewrites a row's cached_at so tests can exercise retention
// windows without waiting out the clock.
func (s *Store) Backdate(ctx context.Context, title string, year int, cachedAt time.Time) error {
	return s.execWithoutResultRetry(ctx,
		`UPDATE movies SET cached_at = ? WHERE title_key = ? AND year = ?`,
		formatTimestamp(cachedAt), textutil.NormalizeTitle(title), year)
}
