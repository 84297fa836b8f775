package flatfile

import "asn856/internal/asn"

// Sanitize removes placeholder fields from every raw field set of rec and
// returns how many were removed. Typed fields are untouched.
func Sanitize(rec *asn.ShipmentRecord) int {
	if rec == nil {
		return 0
	}
	removed := stripPlaceholders(rec.Header.Fields)
	removed += stripPlaceholders(rec.Order.Fields)
	removed += stripPlaceholders(rec.PackingSlip.Fields)
	for i := range rec.Items {
		removed += stripPlaceholders(rec.Items[i].Fields)
	}
	return removed
}

func stripPlaceholders(fields map[string]string) int {
	removed := 0
	for key := range fields {
		if IsPlaceholder(key) {
			delete(fields, key)
			removed++
		}
	}
	return removed
}
