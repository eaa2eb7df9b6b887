// Package catalog models entries scraped from a provider's catalog page and
// detects what changed between the freshly fetched snapshot and the
// previously persisted one.
//
// Change detection works on full snapshots, not incremental diffs: the
// current and previous entry sets are partitioned into new, removed, and
// retained using the normalized title/year key. Retained entries are
// deliberately not re-resolved against the rating service; ratings are
// assumed stable between syncs, which keeps cycles cheap at the cost of a
// known staleness window.
package catalog
