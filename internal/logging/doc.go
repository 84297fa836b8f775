// Package logging assembles structured slog loggers and formatting helpers used
// across the asn856 pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code automatically
// tags log lines with the batch run id, the shipment index, and the customer
// PO being converted. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same keys and routing.
package logging
