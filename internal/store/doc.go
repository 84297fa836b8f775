// Package store persists generated 856 documents keyed by customer PO.
//
// A document is written once. Saving a second document for a PO that already
// has one fails with ErrDuplicateDocument so a re-run over the same export
// never resends a shipment notice. SQLite is the default backend; a Postgres
// backend serves deployments that share the history between hosts.
//
// Schema changes bump schemaVersion in sqlite.go; users delete the database to
// adopt the new schema.
package store
