package identity_test

import (
	"context"
	"errors"
	"testing"

	"reelsync/internal/catalog"
	"reelsync/internal/identity"
	"reelsync/internal/logging"
	"reelsync/internal/services"
	"reelsync/internal/services/letterboxd"
)

type fakeRatings struct {
	film *letterboxd.Film
	err  error
}

func (f *fakeRatings) Film(ctx context.Context, slug string) (*letterboxd.Film, error) {
	return f.film, f.err
}

func (f *fakeRatings) FilmByTitle(ctx context.Context, title string) (*letterboxd.Film, error) {
	return f.film, f.err
}

func ratingPtr(v float64) *float64 { return &v }

func TestResolveFullMatchMergesBothSides(t *testing.T) {
	ratings := &fakeRatings{film: &letterboxd.Film{
		Title:    "Dune",
		Slug:     "dune-2021",
		Rating:   ratingPtr(3.9),
		Genres:   []string{"Science Fiction"},
		URL:      "https://letterboxd.com/film/dune-2021/",
		IMDbLink: "https://www.imdb.com/title/tt1160419/maindetails",
	}}
	resolver := identity.NewResolver(ratings, "Netflix", logging.NewNop())

	outcome := resolver.Resolve(context.Background(), catalog.Entry{
		Title:       "Dune",
		Year:        2021,
		JustWatchID: "jw-dune",
	})

	if outcome.Kind != identity.KindFull {
		t.Fatalf("expected full match, got %s (%s)", outcome, outcome.Reason)
	}
	m := outcome.Movie
	if m.Title != "Dune" || m.Year != 2021 {
		t.Fatalf("catalog side lost authority: %#v", m)
	}
	if m.IMDbID != "tt1160419" {
		t.Fatalf("expected imdb id adopted from rating side, got %q", m.IMDbID)
	}
	if m.LetterboxdSlug != "dune-2021" || m.LetterboxdURL == "" {
		t.Fatalf("rating side fields missing: %#v", m)
	}
	if m.LetterboxdRating == nil || *m.LetterboxdRating != 3.9 {
		t.Fatalf("rating not carried over: %#v", m.LetterboxdRating)
	}
	if len(m.Platforms) != 1 || m.Platforms[0] != "Netflix" {
		t.Fatalf("platform not applied: %#v", m.Platforms)
	}
}

func TestResolveCatalogIMDbIDWins(t *testing.T) {
	ratings := &fakeRatings{film: &letterboxd.Film{
		Title:    "Dune",
		Slug:     "dune-2021",
		IMDbLink: "https://www.imdb.com/title/tt1160419/",
	}}
	resolver := identity.NewResolver(ratings, "Netflix", logging.NewNop())

	outcome := resolver.Resolve(context.Background(), catalog.Entry{
		Title:       "Dune",
		Year:        2021,
		IMDbID:      "tt1160419",
		JustWatchID: "jw-dune",
	})

	if outcome.Kind != identity.KindFull {
		t.Fatalf("matching ids should be a full match, got %s", outcome)
	}
	if outcome.Movie.IMDbID != "tt1160419" {
		t.Fatalf("unexpected imdb id: %q", outcome.Movie.IMDbID)
	}
}

func TestResolveIDConflictDegradesToPartial(t *testing.T) {
	ratings := &fakeRatings{film: &letterboxd.Film{
		Title:    "Dune",
		Slug:     "dune",
		Rating:   ratingPtr(3.5),
		IMDbLink: "https://www.imdb.com/title/tt0087182/",
	}}
	resolver := identity.NewResolver(ratings, "Netflix", logging.NewNop())

	outcome := resolver.Resolve(context.Background(), catalog.Entry{
		Title:       "Dune",
		Year:        2021,
		IMDbID:      "tt1160419",
		JustWatchID: "jw-dune",
	})

	if outcome.Kind != identity.KindPartial || outcome.Reason != identity.ReasonIDConflict {
		t.Fatalf("expected id-conflict partial, got %s (%s)", outcome, outcome.Reason)
	}
	m := outcome.Movie
	if m.IMDbID != "tt1160419" {
		t.Fatalf("catalog imdb id must survive a conflict, got %q", m.IMDbID)
	}
	if m.LetterboxdSlug != "" || m.LetterboxdRating != nil || m.Genres != nil {
		t.Fatalf("rating-side data must be discarded on conflict: %#v", m)
	}
}

func TestResolveRatingsMissDegradesToPartial(t *testing.T) {
	cases := []struct {
		name    string
		ratings *fakeRatings
	}{
		{"not found", &fakeRatings{err: services.Wrap(services.ErrNotFound, "letterboxd", "film", "film page not found", nil)}},
		{"transport error", &fakeRatings{err: errors.New("connection refused")}},
		{"nil film", &fakeRatings{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := identity.NewResolver(tc.ratings, "Netflix", logging.NewNop())
			outcome := resolver.Resolve(context.Background(), catalog.Entry{
				Title:       "Obscure Short",
				Year:        2003,
				JustWatchID: "jw-obscure",
			})
			if outcome.Kind != identity.KindPartial || outcome.Reason != identity.ReasonRatingsMiss {
				t.Fatalf("expected ratings-miss partial, got %s (%s)", outcome, outcome.Reason)
			}
			m := outcome.Movie
			if m.Title != "Obscure Short" || m.JustWatchID != "jw-obscure" {
				t.Fatalf("catalog side must be preserved: %#v", m)
			}
			if m.LetterboxdSlug != "" || m.LetterboxdRating != nil {
				t.Fatalf("rating-side fields must stay absent: %#v", m)
			}
		})
	}
}

func TestResolveInvalidEntryIsUnresolved(t *testing.T) {
	resolver := identity.NewResolver(&fakeRatings{}, "Netflix", logging.NewNop())

	outcome := resolver.Resolve(context.Background(), catalog.Entry{Title: "   "})
	if outcome.Kind != identity.KindUnresolved || outcome.Reason != identity.ReasonInvalidEntry {
		t.Fatalf("blank title should be unresolved, got %s (%s)", outcome, outcome.Reason)
	}

	outcome = resolver.Resolve(context.Background(), catalog.Entry{Title: "No IDs At All"})
	if outcome.Kind != identity.KindUnresolved || outcome.Reason != identity.ReasonInvalidEntry {
		t.Fatalf("entry without identifiers should be unresolved, got %s (%s)", outcome, outcome.Reason)
	}
}

func TestFilmIMDbID(t *testing.T) {
	film := &letterboxd.Film{IMDbLink: "https://www.imdb.com/title/tt1375666/maindetails"}
	if got := film.IMDbID(); got != "tt1375666" {
		t.Fatalf("IMDbID = %q", got)
	}
	var empty *letterboxd.Film
	if got := empty.IMDbID(); got != "" {
		t.Fatalf("nil film IMDbID = %q", got)
	}
}
