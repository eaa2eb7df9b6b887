package identity

import (
	"context"
	"log/slog"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/services"
	"reelsync/internal/services/letterboxd"
	"reelsync/internal/store"
	"reelsync/internal/textutil"
)

// Resolver matches catalog entries against the Letterboxd rating service.
type Resolver struct {
	ratings  letterboxd.Service
	platform string
	logger   *slog.Logger
}

// NewResolver creates a resolver. platform names the streaming provider the
// catalog entries came from; it becomes the availability entry on every
// resolved movie.
func NewResolver(ratings letterboxd.Service, platform string, logger *slog.Logger) *Resolver {
	return &Resolver{
		ratings:  ratings,
		platform: platform,
		logger:   logging.NewComponentLogger(logger, "identity"),
	}
}

// Resolve attempts to reconcile one catalog entry with its Letterboxd
// counterpart. Lookup failures of any kind degrade to a partial match; they
// are never surfaced as errors from this call.
func (r *Resolver) Resolve(ctx context.Context, entry catalog.Entry) Outcome {
	base := r.catalogMovie(entry)
	if err := base.Validate(); err != nil {
		r.logger.Warn("catalog entry cannot be identified, skipping",
			logging.String(logging.FieldTitle, entry.Title),
			logging.Error(err))
		return Outcome{Kind: KindUnresolved, Reason: ReasonInvalidEntry}
	}

	film, err := r.ratings.FilmByTitle(ctx, entry.Title)
	if err != nil || film == nil {
		if err != nil && !services.IsNotFound(err) {
			r.logger.Warn("rating lookup failed, degrading to partial match",
				logging.String(logging.FieldTitle, entry.Title),
				logging.String(logging.FieldSlug, textutil.Slugify(entry.Title)),
				logging.Error(err))
		}
		return Outcome{Kind: KindPartial, Movie: base, Reason: ReasonRatingsMiss}
	}

	filmID := film.IMDbID()
	if entry.IMDbID != "" && filmID != "" && entry.IMDbID != filmID {
		r.logger.Info("imdb ids disagree, discarding rating-side data",
			logging.String(logging.FieldTitle, entry.Title),
			logging.String("catalog_imdb_id", entry.IMDbID),
			logging.String("letterboxd_imdb_id", filmID))
		return Outcome{Kind: KindPartial, Movie: base, Reason: ReasonIDConflict}
	}

	return Outcome{Kind: KindFull, Movie: r.mergedMovie(base, film, filmID)}
}

// catalogMovie builds the catalog-side half of a matched movie.
func (r *Resolver) catalogMovie(entry catalog.Entry) store.MatchedMovie {
	return store.MatchedMovie{
		Title:       entry.Title,
		Year:        entry.Year,
		IMDbID:      entry.IMDbID,
		JustWatchID: entry.JustWatchID,
		Platforms:   []string{r.platform},
	}
}

// mergedMovie unions both sides' fields. The catalog keeps title and year
// authority; the IMDb ID comes from whichever side had one.
func (r *Resolver) mergedMovie(base store.MatchedMovie, film *letterboxd.Film, filmID string) store.MatchedMovie {
	merged := base
	if merged.IMDbID == "" {
		merged.IMDbID = filmID
	}
	merged.LetterboxdSlug = film.Slug
	merged.LetterboxdRating = film.Rating
	merged.Genres = film.Genres
	merged.LetterboxdURL = film.URL
	return merged
}
