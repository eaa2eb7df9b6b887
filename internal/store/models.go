package store

import (
	"errors"
	"strconv"
	"time"

	"reelsync/internal/textutil"
)

// MatchedMovie is the durable merged record for one film: catalog-side
// availability joined with rating-side metadata. Fields from the rating
// service are absent on a partial match.
type MatchedMovie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"` // 0 when the catalog page did not expose a year

	// Catalog-side fields.
	IMDbID          string   `json:"imdb_id,omitempty"`
	JustWatchID     string   `json:"justwatch_id,omitempty"`
	Platforms       []string `json:"platforms,omitempty"`
	JustWatchRating *float64 `json:"justwatch_rating,omitempty"`

	// Rating-side fields, absent on partial matches.
	LetterboxdSlug   string   `json:"letterboxd_slug,omitempty"`
	LetterboxdRating *float64 `json:"letterboxd_rating,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	LetterboxdURL    string   `json:"letterboxd_url,omitempty"`

	CachedAt     time.Time `json:"cached_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Key returns the comparison key used for change detection and as the
// persistence key: normalized title, plus the year when known. Distinct
// films that share a title and year collapse to one key; that precision
// loss is accepted.
func (m MatchedMovie) Key() string {
	return TitleKey(m.Title, m.Year)
}

// TitleKey builds the weak natural key for a title/year pair.
func TitleKey(title string, year int) string {
	key := textutil.NormalizeTitle(title)
	if year > 0 {
		key += "|" + strconv.Itoa(year)
	}
	return key
}

// Validate rejects movies that could never be identified again: an empty
// title, or a record carrying neither a JustWatch ID nor an IMDb ID.
func (m MatchedMovie) Validate() error {
	if textutil.NormalizeTitle(m.Title) == "" {
		return errors.New("movie title must not be empty")
	}
	if m.JustWatchID == "" && m.IMDbID == "" {
		return errors.New("movie needs a justwatch id or an imdb id")
	}
	return nil
}

// HasPlatform reports whether the movie is available on the named platform.
func (m MatchedMovie) HasPlatform(platform string) bool {
	for _, p := range m.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Stats summarizes the store contents.
type Stats struct {
	Count  int64      `json:"count"`
	Oldest *time.Time `json:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty"`
}
