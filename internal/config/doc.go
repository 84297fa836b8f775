// Package config loads, normalizes, and validates asn856 configuration data.
//
// It supplies trading-partner defaults (interchange identifiers, the default
// ship-from identity, the national drug code), expands user paths including
// tilde shortcuts, reads TOML files, and honours environment fallbacks such as
// LOT_LOOKUP_URL and ASN856_DATABASE_URL. The Config type centralizes every
// knob the CLI and the conversion pipeline need so the output directory, the
// document store, and the lot lookup service are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
