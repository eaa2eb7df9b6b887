package identity

import (
	"reelsync/internal/store"
)

// Kind tags a resolution outcome.
type Kind int

const (
	// KindFull means both sources agreed and their fields were merged.
	KindFull Kind = iota
	// KindPartial means only catalog-side fields are present.
	KindPartial
	// KindUnresolved means no persistable record could be built.
	KindUnresolved
)

// Reasons a resolution degraded below a full match.
const (
	// ReasonRatingsMiss covers both a genuine miss on the rating service
	// and transport or parse failures, which are treated identically.
	ReasonRatingsMiss = "ratings_miss"
	// ReasonIDConflict means the rating service returned a film whose IMDb
	// ID disagrees with the one the catalog entry carried.
	ReasonIDConflict = "id_conflict"
	// ReasonInvalidEntry means the catalog entry can never be identified
	// again (empty title, or neither a JustWatch nor an IMDb ID).
	ReasonInvalidEntry = "invalid_entry"
)

// Outcome is the tagged result of resolving one catalog entry. Movie is
// valid for full and partial outcomes; Reason is empty on a full match.
type Outcome struct {
	Kind   Kind
	Movie  store.MatchedMovie
	Reason string
}

func (o Outcome) String() string {
	switch o.Kind {
	case KindFull:
		return "full"
	case KindPartial:
		return "partial"
	default:
		return "unresolved"
	}
}
