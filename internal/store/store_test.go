package store_test

import (
	"context"
	"testing"
	"time"

	"reelsync/internal/store"
	"reelsync/internal/testsupport"
)

func ratingPtr(v float64) *float64 { return &v }

func sampleMovie(title string, year int) store.MatchedMovie {
	return store.MatchedMovie{
		Title:            title,
		Year:             year,
		IMDbID:           "tt1160419",
		JustWatchID:      "jw-dune",
		Platforms:        []string{"Netflix"},
		JustWatchRating:  ratingPtr(7.9),
		LetterboxdSlug:   "dune-2021",
		LetterboxdRating: ratingPtr(3.9),
		Genres:           []string{"Science Fiction", "Adventure"},
		LetterboxdURL:    "https://letterboxd.com/film/dune-2021/",
	}
}

func TestPutAndGetByTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, sampleMovie("Dune", 2021)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := st.GetByTitle(ctx, "  DUNE  ", 48*time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cached movie, got nil")
	}
	if got.Title != "Dune" || got.Year != 2021 {
		t.Fatalf("unexpected movie: %#v", got)
	}
	if got.LetterboxdRating == nil || *got.LetterboxdRating != 3.9 {
		t.Fatalf("rating not round-tripped: %#v", got.LetterboxdRating)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "Science Fiction" {
		t.Fatalf("genres not round-tripped: %#v", got.Genres)
	}
	if got.CachedAt.IsZero() || got.LastAccessed.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestPutOverwritesSameKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := sampleMovie("Dune", 2021)
	if err := st.Put(ctx, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := sampleMovie("dune", 2021)
	second.LetterboxdSlug = "dune-part-one"
	second.LetterboxdRating = nil
	if err := st.Put(ctx, second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := st.GetByTitle(ctx, "Dune", 48*time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected movie after overwrite")
	}
	if got.LetterboxdSlug != "dune-part-one" {
		t.Fatalf("expected overwrite to replace slug, got %q", got.LetterboxdSlug)
	}
	if got.LetterboxdRating != nil {
		t.Fatalf("expected overwrite to clear rating, got %v", *got.LetterboxdRating)
	}

	stats, err := st.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Count != 1 {
		t.Fatalf("expected a single row after upsert, got %d", stats.Count)
	}
}

func TestSameTitleDifferentYearsCoexist(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	remake := sampleMovie("Dune", 2021)
	original := sampleMovie("Dune", 1984)
	original.IMDbID = "tt0087182"
	original.JustWatchID = "jw-dune-84"

	if err := st.PutMany(ctx, []store.MatchedMovie{remake, original}); err != nil {
		t.Fatalf("PutMany failed: %v", err)
	}

	stats, err := st.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Count != 2 {
		t.Fatalf("expected both years to persist, got %d rows", stats.Count)
	}
}

func TestGetRespectsMaxAge(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, sampleMovie("Dune", 2021)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := st.GetByTitle(ctx, "Dune", 0)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got != nil {
		t.Fatalf("zero max age should expire every row, got %#v", got)
	}

	got, err = st.GetByIMDbID(ctx, "tt1160419", 0)
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got != nil {
		t.Fatalf("zero max age should expire every row, got %#v", got)
	}

	got, err = st.GetByIMDbID(ctx, "tt1160419", time.Hour)
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got == nil {
		t.Fatal("fresh row should be returned inside the window")
	}
}

func TestGetMissReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	got, err := st.GetByTitle(ctx, "Nobody Home", time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %#v", got)
	}

	got, err = st.GetByIMDbID(ctx, "tt0000000", time.Hour)
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %#v", got)
	}
}

func TestDeleteAbsentKeyIsNoOp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.DeleteByTitle(ctx, "Never Stored"); err != nil {
		t.Fatalf("DeleteByTitle on absent key: %v", err)
	}
	if err := st.DeleteByIMDbID(ctx, "tt9999999"); err != nil {
		t.Fatalf("DeleteByIMDbID on absent key: %v", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, sampleMovie("Dune", 2021)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.DeleteByTitle(ctx, "dune"); err != nil {
		t.Fatalf("DeleteByTitle failed: %v", err)
	}

	got, err := st.GetByTitle(ctx, "Dune", time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected row to be gone, got %#v", got)
	}
}

func TestSweepExpired(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	stale := sampleMovie("Dune", 2021)
	fresh := sampleMovie("Arrival", 2016)
	fresh.IMDbID = "tt2543164"
	if err := st.PutMany(ctx, []store.MatchedMovie{stale, fresh}); err != nil {
		t.Fatalf("PutMany failed: %v", err)
	}
	if err := st.Backdate(ctx, "Dune", 2021, time.Now().Add(-200*time.Hour)); err != nil {
		t.Fatalf("Backdate failed: %v", err)
	}

	removed, err := st.SweepExpired(ctx, 168*time.Hour)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("a 200h-old row must fall to a 168h sweep, removed %d", removed)
	}

	got, err := st.GetByTitle(ctx, "Dune", 400*time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got != nil {
		t.Fatalf("swept row still readable: %#v", got)
	}

	stats, err := st.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Count != 1 {
		t.Fatalf("fresh row should survive the sweep, got %d rows", stats.Count)
	}

	removed, err = st.SweepExpired(ctx, 0)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("zero retention should remove the remaining row, removed %d", removed)
	}
}

func TestGetExpiresBackdatedRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, sampleMovie("Dune", 2021)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.Backdate(ctx, "Dune", 2021, time.Now().Add(-72*time.Hour)); err != nil {
		t.Fatalf("Backdate failed: %v", err)
	}

	got, err := st.GetByTitle(ctx, "Dune", 48*time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got != nil {
		t.Fatalf("72h-old row must miss a 48h window, got %#v", got)
	}

	got, err = st.GetByTitle(ctx, "Dune", 96*time.Hour)
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if got == nil {
		t.Fatal("72h-old row must hit a 96h window")
	}
}

func TestTimestampFormatOrdersLexicographically(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 500_000_000, time.UTC)
	later := base.Add(10 * time.Millisecond)

	a := store.FormatTimestamp(base)
	b := store.FormatTimestamp(later)
	if len(a) != len(b) {
		t.Fatalf("timestamps must be fixed width: %q vs %q", a, b)
	}
	if a >= b {
		t.Fatalf("string order must follow time order: %q >= %q", a, b)
	}
}

func TestListByPlatform(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	netflix := sampleMovie("Dune", 2021)
	hulu := sampleMovie("Arrival", 2016)
	hulu.IMDbID = "tt2543164"
	hulu.JustWatchID = "jw-arrival"
	hulu.Platforms = []string{"Hulu"}

	if err := st.PutMany(ctx, []store.MatchedMovie{netflix, hulu}); err != nil {
		t.Fatalf("PutMany failed: %v", err)
	}

	movies, err := st.ListByPlatform(ctx, "Netflix")
	if err != nil {
		t.Fatalf("ListByPlatform failed: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Dune" {
		t.Fatalf("unexpected platform listing: %#v", movies)
	}

	if _, err := st.ListByPlatform(ctx, ""); err == nil {
		t.Fatal("expected error for empty platform name")
	}
}

func TestPutRejectsInvalidMovie(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, store.MatchedMovie{Title: "   "}); err == nil {
		t.Fatal("expected validation error for blank title")
	}
	if err := st.Put(ctx, store.MatchedMovie{Title: "No IDs"}); err == nil {
		t.Fatal("expected validation error for missing identifiers")
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.Put(ctx, sampleMovie("Dune", 2021)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	stats, err := st.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Count != 0 {
		t.Fatalf("expected empty store, got %d rows", stats.Count)
	}
}

func TestTitleKey(t *testing.T) {
	if got := store.TitleKey("  The Matrix ", 1999); got != "the matrix|1999" {
		t.Fatalf("TitleKey = %q", got)
	}
	if got := store.TitleKey("Unknown Year", 0); got != "unknown year" {
		t.Fatalf("TitleKey without year = %q", got)
	}
}
