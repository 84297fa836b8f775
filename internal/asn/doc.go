// Package asn models one shipment taken from the ERP advance-ship-notice
// export: the header, the order with its party blocks, the packing slip, and
// the ordered line items with their optional lot attachments.
//
// Records are produced by the flatfile decoder, completed by the lot enricher,
// and consumed by the X12 encoder. Scaled numeric fields are already divided by
// their scale factor; a nil pointer means the raw value was absent or could not
// be read as a number.
package asn
