package justwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

var (
	moviePathPattern = regexp.MustCompile(`/movie/([^/?#]+)`)
	yearPattern      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Snapshotter produces a full catalog snapshot for one provider.
type Snapshotter interface {
	FetchSnapshot(ctx context.Context) ([]catalog.Entry, error)
}

// Scraper walks a JustWatch provider page and collects every movie entry.
type Scraper struct {
	baseURL    string
	country    string
	provider   string
	pagePace   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Snapshotter = (*Scraper)(nil)

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithPagePace sets the pause between page fetches.
func WithPagePace(pace time.Duration) Option {
	return func(s *Scraper) {
		if pace >= 0 {
			s.pagePace = pace
		}
	}
}

// New creates a catalog scraper for the given provider.
func New(baseURL, country, provider string, logger *slog.Logger, opts ...Option) (*Scraper, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("justwatch base url required")
	}
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, errors.New("provider name required")
	}
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		country = "us"
	}

	scraper := &Scraper{
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    country,
		provider:   provider,
		pagePace:   time.Second,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewComponentLogger(logger, "justwatch"),
	}
	for _, opt := range opts {
		opt(scraper)
	}
	return scraper, nil
}

// FetchSnapshot scrapes every catalog page until one yields no movies. On a
// first-page failure no snapshot exists and an error is returned; later
// page failures end pagination with the entries collected so far.
func (s *Scraper) FetchSnapshot(ctx context.Context) ([]catalog.Entry, error) {
	listURL := fmt.Sprintf("%s/%s/provider/%s", s.baseURL, s.country, strings.ToLower(s.provider))

	var entries []catalog.Entry
	for page := 1; ; page++ {
		if page > 1 {
			if err := s.pause(ctx); err != nil {
				return nil, err
			}
		}

		pageEntries, err := s.scrapePage(ctx, listURL, page)
		if err != nil {
			if page == 1 {
				return nil, services.Wrap(services.ErrTransient, "justwatch", "fetch_snapshot", "first catalog page failed", err)
			}
			s.logger.Warn("catalog page fetch failed, ending pagination",
				logging.Int("page", page),
				logging.Int("entries_so_far", len(entries)),
				logging.Error(err))
			break
		}
		if len(pageEntries) == 0 {
			break
		}

		entries = append(entries, pageEntries...)
		s.logger.Debug("scraped catalog page",
			logging.Int("page", page),
			logging.Int("page_entries", len(pageEntries)),
			logging.Int("total_entries", len(entries)))
	}

	s.logger.Info("catalog snapshot complete",
		logging.String(logging.FieldProvider, s.provider),
		logging.Int("entries", len(entries)))
	return entries, nil
}

func (s *Scraper) scrapePage(ctx context.Context, listURL string, page int) ([]catalog.Entry, error) {
	pageURL := fmt.Sprintf("%s?page=%d", listURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %d returned %d", page, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}

	var entries []catalog.Entry
	doc.Find(`a[href*="/movie/"]`).Each(func(_ int, sel *goquery.Selection) {
		if entry, ok := s.extractEntry(sel); ok {
			entries = append(entries, entry)
		}
	})
	return entries, nil
}

// extractEntry pulls a catalog entry out of one movie anchor. The listing
// exposes the title as link text, the JustWatch slug in the href, and the
// release year somewhere in the surrounding tile text. IMDb IDs are not
// available in the list view.
func (s *Scraper) extractEntry(sel *goquery.Selection) (catalog.Entry, bool) {
	title := strings.TrimSpace(sel.Text())
	href, _ := sel.Attr("href")
	if title == "" || href == "" {
		return catalog.Entry{}, false
	}

	entry := catalog.Entry{Title: title}

	if match := moviePathPattern.FindStringSubmatch(href); match != nil {
		entry.JustWatchID = match[1]
	}
	if strings.HasPrefix(href, "/") {
		entry.SourceURL = s.baseURL + href
	} else {
		entry.SourceURL = href
	}

	if parent := sel.Parent(); parent != nil {
		if yearText := yearPattern.FindString(parent.Text()); yearText != "" {
			if year, err := strconv.Atoi(yearText); err == nil {
				entry.Year = year
			}
		}
	}

	return entry, true
}

func (s *Scraper) pause(ctx context.Context) error {
	if s.pagePace <= 0 {
		return nil
	}
	select {
	case <-time.After(s.pagePace):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
