package testsupport

import (
	"testing"

	"reelsync/internal/config"
	"reelsync/internal/missinglog"
	"reelsync/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustOpenMissingLog creates a missing-match log under the test log dir.
func MustOpenMissingLog(t testing.TB, cfg *config.Config) *missinglog.Log {
	t.Helper()

	log, err := missinglog.New(cfg.MissingLogPath())
	if err != nil {
		t.Fatalf("missinglog.New: %v", err)
	}
	return log
}
