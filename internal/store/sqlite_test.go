package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asn856/internal/config"
	"asn856/internal/store"
	"asn856/internal/testsupport"
)

func sampleDocument(po string, created time.Time) store.Document {
	return store.Document{
		CustomerPO:         po,
		FileName:           po + ".edi",
		InterchangeControl: "100000001",
		ItemCount:          2,
		RunID:              "run-1",
		Body:               "ISA*00~",
		CreatedAt:          created,
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created := time.Date(2025, time.March, 1, 10, 15, 30, 0, time.UTC)
	if err := s.Save(ctx, sampleDocument("525251000501", created)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "525251000501")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FileName != "525251000501.edi" || got.ItemCount != 2 || got.RunID != "run-1" {
		t.Fatalf("unexpected document %+v", got)
	}
	if got.Body != "ISA*00~" {
		t.Fatalf("unexpected body %q", got.Body)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
}

func TestSQLiteSaveRejectsDuplicatePO(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := sampleDocument("PO-1", time.Now().UTC())
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := first
	second.InterchangeControl = "999999999"
	err := s.Save(ctx, second)
	if !errors.Is(err, store.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	got, err := s.Get(ctx, "PO-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.InterchangeControl != "100000001" {
		t.Fatalf("duplicate overwrote stored document: %+v", got)
	}
}

func TestSQLiteSaveRequiresPO(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	if err := s.Save(context.Background(), store.Document{FileName: "x.edi"}); err == nil {
		t.Fatal("expected error for document without customer po")
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSQLiteListNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, po := range []string{"A", "B", "C"} {
		if err := s.Save(ctx, sampleDocument(po, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save %s: %v", po, err)
		}
	}

	docs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].CustomerPO != "C" || docs[1].CustomerPO != "B" {
		t.Fatalf("unexpected order: %s, %s", docs[0].CustomerPO, docs[1].CustomerPO)
	}
	if docs[0].Body != "" {
		t.Fatal("List should not load document bodies")
	}
}

func TestSQLiteReopenKeepsDocuments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	s, err := store.OpenSQLite(ctx, cfg.Store.Path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Save(ctx, sampleDocument("KEEP", time.Now().UTC())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.OpenSQLite(ctx, cfg.Store.Path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "KEEP"); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	cfg := testsupport.NewConfig(t, testsupport.WithStoreDriver(config.StoreDriverNone))
	s, err := store.Open(ctx, cfg)
	if err != nil || s != nil {
		t.Fatalf("expected nil store for driver none, got %v, %v", s, err)
	}

	cfg = testsupport.NewConfig(t)
	s, err = store.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*store.SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", s)
	}
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithStoreDriver("mongo"))
	if _, err := store.Open(ctx, cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	if _, err := store.OpenSQLite(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenSQLiteDetectsSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "documents.db")
	s, err := store.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s.Close()

	store.SetSchemaVersionForTest(t, path, 99)

	if _, err := store.OpenSQLite(ctx, path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
