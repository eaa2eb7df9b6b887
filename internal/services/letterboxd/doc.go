// Package letterboxd fetches film ratings and genre metadata from
// Letterboxd film pages.
//
// Letterboxd has no public API, so the client requests the film detail page
// for a slug and extracts the average rating, genres, and IMDb link from the
// document. Lookups are exact-slug only: a title that slugifies to a page
// that does not exist is reported as not found, never fuzzily retried.
package letterboxd
