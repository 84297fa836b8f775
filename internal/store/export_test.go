package store

import (
	"database/sql"
	"testing"
)

// SetSchemaVersionForTest rewrites the recorded schema version of the database at path.
func SetSchemaVersionForTest(t testing.TB, path string, version int) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("UPDATE schema_version SET version = ?", version); err != nil {
		t.Fatalf("update schema version: %v", err)
	}
}
