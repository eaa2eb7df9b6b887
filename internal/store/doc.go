// Package store persists matched movies in SQLite.
//
// One row is kept per movie, unique on the normalized title plus release
// year. The stable cross-service identifier (IMDb ID) is rarely available
// when a catalog page is scraped, so the weak natural key is the durable
// one and the IMDb ID is treated as optional enrichment. Rows expire: reads
// honor a caller-supplied maximum age and a sweep deletes rows past the
// retention window.
package store
