// Package pipeline drives a flat-file export through every conversion stage.
//
// A Processor splits the export into shipment blocks, decodes each block,
// resolves lot expirations, strips placeholder fields, and encodes the 856.
// Generate then records the document in the store and writes it to the output
// directory. Each shipment produces its own Result; only a shipment without
// items fails, and a failure never stops the rest of the batch.
//
// Persistence and file output are side effects of a finished document. A
// duplicate customer PO or an unwritable output directory is reported as a
// warning on the Result and leaves the encoded text intact.
package pipeline
