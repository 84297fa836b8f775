package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asn856/internal/config"
	"asn856/internal/x12"
)

var (
	// ErrDuplicateDocument reports that a document already exists for the PO.
	ErrDuplicateDocument = errors.New("document already recorded for customer po")
	// ErrDocumentNotFound reports a lookup for an unknown PO.
	ErrDocumentNotFound = errors.New("document not found")
)

// Document is a persisted 856 interchange.
type Document struct {
	CustomerPO         string    `json:"customer_po"`
	FileName           string    `json:"file_name"`
	InterchangeControl string    `json:"interchange_control"`
	ItemCount          int       `json:"item_count"`
	RunID              string    `json:"run_id,omitempty"`
	Body               string    `json:"body,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// FromEncoded converts an encoder result into a storable document.
func FromEncoded(doc *x12.Document, runID string) Document {
	if doc == nil {
		return Document{}
	}
	return Document{
		CustomerPO:         doc.CustomerPO,
		FileName:           doc.FileName,
		InterchangeControl: doc.InterchangeControl,
		ItemCount:          doc.ItemCount,
		RunID:              runID,
		Body:               doc.Text(),
		CreatedAt:          doc.CreatedAt.UTC(),
	}
}

// Store records generated documents.
type Store interface {
	// Save inserts doc, returning ErrDuplicateDocument when the PO is taken.
	Save(ctx context.Context, doc Document) error
	// Get returns the document for po or ErrDocumentNotFound.
	Get(ctx context.Context, po string) (*Document, error)
	// List returns the most recent documents without their bodies.
	List(ctx context.Context, limit int) ([]Document, error)
	Close() error
}

// Open connects the backend named by cfg.Store.Driver. It returns a nil Store
// and nil error when persistence is disabled.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, errors.New("store: nil config")
	}
	switch cfg.Store.Driver {
	case config.StoreDriverNone:
		return nil, nil
	case config.StoreDriverPostgres:
		s, err := OpenPostgres(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreDriverSQLite, "":
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		s, err := OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Store.Driver)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func validateDocument(doc Document) error {
	if doc.CustomerPO == "" {
		return errors.New("store: document has no customer po")
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

const defaultListLimit = 50
