package catalog_test

import (
	"testing"

	"reelsync/internal/catalog"
	"reelsync/internal/store"
)

func entry(title string, year int) catalog.Entry {
	return catalog.Entry{Title: title, Year: year, JustWatchID: "jw-" + title}
}

func movie(title string, year int) store.MatchedMovie {
	return store.MatchedMovie{Title: title, Year: year, JustWatchID: "jw-" + title}
}

func TestDiffPartitionsSnapshot(t *testing.T) {
	current := []catalog.Entry{
		entry("Dune", 2021),
		entry("Arrival", 2016),
		entry("Fresh Release", 2026),
	}
	previous := []store.MatchedMovie{
		movie("Dune", 2021),
		movie("Arrival", 2016),
		movie("Gone Now", 1999),
	}

	changes := catalog.Diff(current, previous)

	if len(changes.New) != 1 || changes.New[0].Title != "Fresh Release" {
		t.Fatalf("unexpected new entries: %#v", changes.New)
	}
	if len(changes.Removed) != 1 || changes.Removed[0].Title != "Gone Now" {
		t.Fatalf("unexpected removed movies: %#v", changes.Removed)
	}
	if len(changes.Retained) != 2 {
		t.Fatalf("unexpected retained entries: %#v", changes.Retained)
	}
	if got := len(changes.New) + len(changes.Retained); got != len(current) {
		t.Fatalf("current entries must partition into new and retained, got %d of %d", got, len(current))
	}
	if got := len(changes.Removed) + len(changes.Retained); got != len(previous) {
		t.Fatalf("previous movies must partition into removed and retained, got %d of %d", got, len(previous))
	}
}

func TestDiffMatchesOnNormalizedKey(t *testing.T) {
	current := []catalog.Entry{entry("  DUNE ", 2021)}
	previous := []store.MatchedMovie{movie("dune", 2021)}

	changes := catalog.Diff(current, previous)
	if len(changes.New) != 0 || len(changes.Removed) != 0 {
		t.Fatalf("case and whitespace must not produce churn: %#v", changes)
	}
	if len(changes.Retained) != 1 {
		t.Fatalf("expected one retained entry, got %#v", changes.Retained)
	}
}

func TestDiffSeparatesYears(t *testing.T) {
	current := []catalog.Entry{entry("Dune", 2021)}
	previous := []store.MatchedMovie{movie("Dune", 1984)}

	changes := catalog.Diff(current, previous)
	if len(changes.New) != 1 {
		t.Fatalf("different year should be new: %#v", changes)
	}
	if len(changes.Removed) != 1 {
		t.Fatalf("different year should be removed: %#v", changes)
	}
}

func TestDiffIdenticalSnapshotsProduceNoChurn(t *testing.T) {
	current := []catalog.Entry{entry("Dune", 2021), entry("Arrival", 2016)}
	previous := []store.MatchedMovie{movie("Dune", 2021), movie("Arrival", 2016)}

	changes := catalog.Diff(current, previous)
	if len(changes.New) != 0 || len(changes.Removed) != 0 {
		t.Fatalf("identical snapshots must not churn: %#v", changes)
	}
}

func TestDiffEmptySnapshots(t *testing.T) {
	changes := catalog.Diff(nil, nil)
	if len(changes.New) != 0 || len(changes.Removed) != 0 || len(changes.Retained) != 0 {
		t.Fatalf("empty inputs should yield empty changes: %#v", changes)
	}

	changes = catalog.Diff(nil, []store.MatchedMovie{movie("Dune", 2021)})
	if len(changes.Removed) != 1 {
		t.Fatalf("empty current snapshot should remove everything: %#v", changes)
	}
}
