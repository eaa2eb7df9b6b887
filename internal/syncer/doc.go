// Package syncer drives one full catalog synchronization cycle: fetch the
// provider catalog, diff it against the persisted snapshot, resolve only the
// new entries against Letterboxd, persist the matches, and evict titles that
// left the catalog.
//
// A cycle is all-or-nothing only at the fetch step: a total fetch failure
// aborts with no mutation. Resolution failures are isolated per entry.
// Letterboxd lookups are issued strictly sequentially with a mandatory pause
// between calls; this is a politeness constraint toward the rating service,
// not a performance knob.
//
// At most one cycle may run at a time per Syncer. Cross-process exclusion is
// the daemon's job (it holds an advisory file lock per provider).
package syncer
