// Package textutil provides text cleanup shared by the encoder and the
// output writer.
//
// EDIText prepares free-form names and descriptions for X12 elements:
// upper-case, slashes replaced with spaces, runs of spaces collapsed.
// SanitizeFileName makes a customer PO safe to use as a file name.
package textutil
