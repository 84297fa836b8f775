// Package enrich attaches lot data to shipment items.
//
// Each raw lot line yields a normalized lot code, the shipped quantity as
// given, and the expiration date reported by the lot lookup service. A lookup
// that fails for any reason leaves the expiration empty and is logged as a
// warning; it never fails the shipment. Lookups run one at a time by default
// and can fan out with a bounded number of workers per shipment.
package enrich
