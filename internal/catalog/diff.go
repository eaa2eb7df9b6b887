package catalog

import (
	"reelsync/internal/store"
)

// Changes partitions a snapshot comparison. Every current entry lands in
// exactly one of New or Retained; every previous movie lands in exactly one
// of Removed or Retained.
type Changes struct {
	New      []Entry
	Removed  []store.MatchedMovie
	Retained []Entry
}

// Diff compares the freshly scraped snapshot against the previously
// persisted one using the normalized title/year key. Two distinct entries
// that normalize to the same key collapse into one; that is accepted
// precision loss, not guarded against.
func Diff(current []Entry, previous []store.MatchedMovie) Changes {
	currentKeys := make(map[string]struct{}, len(current))
	for _, entry := range current {
		currentKeys[entry.Key()] = struct{}{}
	}
	previousKeys := make(map[string]struct{}, len(previous))
	for _, movie := range previous {
		previousKeys[movie.Key()] = struct{}{}
	}

	changes := Changes{}
	for _, entry := range current {
		if _, ok := previousKeys[entry.Key()]; ok {
			changes.Retained = append(changes.Retained, entry)
		} else {
			changes.New = append(changes.New, entry)
		}
	}
	for _, movie := range previous {
		if _, ok := currentKeys[movie.Key()]; !ok {
			changes.Removed = append(changes.Removed, movie)
		}
	}
	return changes
}
