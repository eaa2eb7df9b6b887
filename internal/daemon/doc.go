// Package daemon runs reelsync as a long-lived process: a scheduler that
// triggers catalog sync cycles on a configurable interval, an expiry sweep
// after each cycle, and a small HTTP API for status, manual syncs, and
// cache queries.
//
// Mutual exclusion is two-layered. Within the process the Syncer rejects
// overlapping cycles; across processes the daemon takes an advisory file
// lock keyed by provider name before every cycle, so two daemons pointed at
// the same store cannot sync the same provider concurrently.
package daemon
