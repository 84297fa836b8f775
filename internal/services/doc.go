// Package services defines shared utilities consumed by the conversion
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp the batch run id, the shipment index, the
//     customer PO, and the pipeline stage for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (bad input versus an unavailable collaborator) with errors.Is.
//
// Clients for external collaborators live in subpackages (lotlookup).
package services
