package x12

import "strings"

// Reference qualifiers for the shipment reference segment.
const (
	QualifierParcelTracking = "2I"
	QualifierCarrierRef     = "CN"
	QualifierBillOfLading   = "BM"
)

var parcelCarrierFragments = []string{"FED", "UPS"}

// IsParcelCarrier reports whether the SCAC or carrier code names a parcel
// carrier: a case-insensitive substring match against FED and UPS.
func IsParcelCarrier(code string) bool {
	code = strings.ToUpper(code)
	for _, fragment := range parcelCarrierFragments {
		if strings.Contains(code, fragment) {
			return true
		}
	}
	return false
}
