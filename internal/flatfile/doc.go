// Package flatfile reads the ERP advance-ship-notice export.
//
// The export is line oriented. Every line is a "~"-delimited list of
// double-quoted fields whose first field is a record tag: H (header),
// O (order), PS (packing slip), I (item), and LT (lot). A shipment starts at a
// header line for the configured trading partner and runs until the next
// header line or the end of input.
//
// Splitter cuts the export into shipment Blocks. Decoder maps each line onto
// the positional schema for its tag, converts scaled numeric fields, and
// builds an asn.ShipmentRecord plus the raw lot lines that still need an
// expiration lookup. Sanitize removes the placeholder fields the schemas use
// for positions that carry no business meaning.
package flatfile
