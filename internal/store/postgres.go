package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed postgres_schema.sql
var postgresSchemaSQL string

const pgUniqueViolation = "23505"

// PostgresStore keeps documents in a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to dsn, pings the server, and creates the documents
// table when it is missing.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store: postgres dsn is empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, doc Document) error {
	ctx = ensureContext(ctx)
	if err := validateDocument(doc); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	tag, err := s.pool.Exec(ctx, `INSERT INTO asn_documents
		(customer_po, file_name, interchange_control, item_count, run_id, body, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		ON CONFLICT (customer_po) DO NOTHING`,
		doc.CustomerPO, doc.FileName, doc.InterchangeControl, doc.ItemCount,
		doc.RunID, doc.Body, doc.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.CustomerPO)
		}
		return fmt.Errorf("insert document %q: %w", doc.CustomerPO, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.CustomerPO)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, po string) (*Document, error) {
	ctx = ensureContext(ctx)
	row := s.pool.QueryRow(ctx, `SELECT customer_po, file_name, interchange_control,
		item_count, COALESCE(run_id, ''), body, created_at
		FROM asn_documents WHERE customer_po = $1`, po)
	var doc Document
	err := row.Scan(&doc.CustomerPO, &doc.FileName, &doc.InterchangeControl,
		&doc.ItemCount, &doc.RunID, &doc.Body, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, po)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", po, err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	return &doc, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Document, error) {
	ctx = ensureContext(ctx)
	rows, err := s.pool.Query(ctx, `SELECT customer_po, file_name, interchange_control,
		item_count, COALESCE(run_id, ''), created_at
		FROM asn_documents ORDER BY created_at DESC, customer_po LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.CustomerPO, &doc.FileName, &doc.InterchangeControl,
			&doc.ItemCount, &doc.RunID, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.CreatedAt = doc.CreatedAt.UTC()
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
