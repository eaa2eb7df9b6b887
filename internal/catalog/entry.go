package catalog

import (
	"reelsync/internal/store"
)

// Entry is a raw record surfaced by scraping one catalog page. It lives only
// within a single sync cycle.
type Entry struct {
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"` // 0 when the page did not expose a year
	JustWatchID string `json:"justwatch_id,omitempty"`
	IMDbID      string `json:"imdb_id,omitempty"` // rarely populated at scrape time
	SourceURL   string `json:"source_url,omitempty"`
}

// Key returns the normalized comparison key for change detection.
func (e Entry) Key() string {
	return store.TitleKey(e.Title, e.Year)
}
