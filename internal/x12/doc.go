// Package x12 encodes shipment records as X12 856 (Ship Notice/Manifest)
// documents.
//
// A document is one interchange holding one functional group holding one
// transaction set. Segments are separated by "\n" and elements by "*". The
// hierarchy is fixed: one shipment level (HL 1), one order level (HL 2), and
// one item level per shipment item (HL 3..n). Control numbers are nine digits
// and generated fresh for every document.
package x12
