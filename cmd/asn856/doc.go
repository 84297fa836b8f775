// Package main hosts the asn856 CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the conversion
// pipeline from it, and renders results as tables or JSON. Conversion logic
// lives in the internal packages; commands here only parse flags, open the
// document store, and present outcomes.
package main
