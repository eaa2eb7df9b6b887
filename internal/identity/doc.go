// Package identity resolves cross-service identity between a scraped
// catalog entry and its Letterboxd counterpart.
//
// The two sources are independently keyed. The IMDb ID is the strong join
// key when both sides carry one; otherwise the resolver falls back to an
// exact normalized-slug lookup by title. Matching stays lenient: there is
// no fuzzy string distance and no alternate-spelling retry, so
// false negatives are expected and surface as partial matches rather than
// errors. When the two sides carry disagreeing IMDb IDs the rating-side
// data is discarded as untrustworthy and the match degrades to partial.
package identity
