// Package missinglog durably records catalog entries that could not be
// matched against the rating service. The log is append-only: one
// timestamped line per entry, never overwritten, so operators can review
// which titles keep falling through the exact-slug lookup.
package missinglog
