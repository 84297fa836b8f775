package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"asn856/internal/store"
)

func openTestPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	dsn := os.Getenv("ASN856_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ASN856_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := store.OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresSaveGetAndDuplicate(t *testing.T) {
	s := openTestPostgres(t)
	ctx := context.Background()

	po := "TEST-" + uuid.NewString()
	doc := sampleDocument(po, time.Now().UTC().Truncate(time.Microsecond))
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, doc); !errors.Is(err, store.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	got, err := s.Get(ctx, po)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Body != doc.Body || got.RunID != doc.RunID || !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Fatalf("unexpected document %+v", got)
	}

	docs, err := s.List(ctx, 500)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, d := range docs {
		if d.CustomerPO == po {
			found = true
		}
	}
	if !found {
		t.Fatalf("saved document %s missing from list", po)
	}
}

func TestPostgresGetMissing(t *testing.T) {
	s := openTestPostgres(t)
	_, err := s.Get(context.Background(), "missing-"+uuid.NewString())
	if !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestOpenPostgresRejectsEmptyDSN(t *testing.T) {
	if _, err := store.OpenPostgres(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
