package letterboxd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelsync/internal/services"
	"reelsync/internal/textutil"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

var imdbIDPattern = regexp.MustCompile(`tt\d+`)

// Film holds the metadata extracted from one Letterboxd film page.
type Film struct {
	Title    string
	Slug     string
	Rating   *float64 // average rating on the 0-5 scale, nil when unrated
	Genres   []string
	URL      string
	IMDbLink string
}

// IMDbID parses the IMDb identifier (for example "tt1375666") out of the
// film's IMDb link. Returns the empty string when no link was present.
func (f *Film) IMDbID() string {
	if f == nil || f.IMDbLink == "" {
		return ""
	}
	return imdbIDPattern.FindString(f.IMDbLink)
}

// Service defines the lookups the identity resolver needs.
type Service interface {
	Film(ctx context.Context, slug string) (*Film, error)
	FilmByTitle(ctx context.Context, title string) (*Film, error)
}

// Client fetches and parses Letterboxd film pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Letterboxd client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("letterboxd base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Film fetches the film page for slug and extracts its metadata. A missing
// page is reported as services.ErrNotFound.
func (c *Client) Film(ctx context.Context, slug string) (*Film, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("slug must not be empty")
	}

	pageURL := fmt.Sprintf("%s/film/%s/", c.baseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "letterboxd", "film", slug, nil)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("letterboxd film page returned %d (latency=%v)", resp.StatusCode, latency)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse film page: %w", err)
	}

	film := parseFilmDocument(doc, slug)
	if film.URL == "" {
		film.URL = pageURL
	}
	return film, nil
}

// FilmByTitle derives the Letterboxd slug from a title and fetches that
// film page. "The Matrix" becomes "the-matrix".
func (c *Client) FilmByTitle(ctx context.Context, title string) (*Film, error) {
	slug := textutil.Slugify(title)
	if slug == "" {
		return nil, services.Wrap(services.ErrValidation, "letterboxd", "film_by_title", "title produced an empty slug", nil)
	}
	return c.Film(ctx, slug)
}

func parseFilmDocument(doc *goquery.Document, slug string) *Film {
	film := &Film{Slug: slug}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		film.Title = stripYearSuffix(strings.TrimSpace(title))
	}
	if film.Title == "" {
		film.Title = strings.TrimSpace(doc.Find("h1.filmtitle, h1.headline-1").First().Text())
	}

	if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		film.URL = strings.TrimSpace(canonical)
	}

	// The average rating is exposed in the twitter card, e.g. "3.86 out of 5".
	if data, ok := doc.Find(`meta[name="twitter:data2"]`).Attr("content"); ok {
		if rating, err := parseRating(data); err == nil {
			film.Rating = &rating
		}
	}

	doc.Find(`a[href^="/films/genre/"]`).Each(func(_ int, sel *goquery.Selection) {
		genre := strings.TrimSpace(sel.Text())
		if genre != "" {
			film.Genres = append(film.Genres, genre)
		}
	})

	doc.Find(`a[href*="imdb.com/title/"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok {
			film.IMDbLink = strings.TrimSpace(href)
			return false
		}
		return true
	})

	return film
}

func parseRating(value string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(value))
	if len(fields) == 0 {
		return 0, errors.New("empty rating value")
	}
	rating, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse rating %q: %w", value, err)
	}
	if rating < 0 || rating > 5 {
		return 0, fmt.Errorf("rating %v outside the 0-5 scale", rating)
	}
	return rating, nil
}

// stripYearSuffix removes the trailing " (2021)" Letterboxd appends to film
// titles in page metadata.
func stripYearSuffix(title string) string {
	if len(title) < 7 || !strings.HasSuffix(title, ")") {
		return title
	}
	open := strings.LastIndex(title, " (")
	if open < 1 {
		return title
	}
	year := title[open+2 : len(title)-1]
	if len(year) != 4 {
		return title
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return title
		}
	}
	return title[:open]
}
