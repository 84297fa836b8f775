// Package lotlookup queries the lot expiration service.
//
// The service answers GET <base>?lot=<code> with a JSON object whose
// "expiration" field holds the lot's expiration date (YYYY-MM-DD). Client
// reports a missing or null field as an empty expiration, and every transport
// or status failure as an error tagged with a services marker so callers can
// decide how to degrade.
package lotlookup
