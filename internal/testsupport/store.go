package testsupport

import (
	"context"
	"testing"

	"asn856/internal/config"
	"asn856/internal/store"
)

// MustOpenStore opens the SQLite document store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.SQLiteStore {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	s, err := store.OpenSQLite(context.Background(), cfg.Store.Path)
	if err != nil {
		t.Fatalf("store.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
