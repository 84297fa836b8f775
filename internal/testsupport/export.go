package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Line renders one export record: every position up to width is quoted and
// joined with "~", positions missing from values are empty.
func Line(tag string, width int, values map[int]string) string {
	parts := make([]string, 0, width+1)
	parts = append(parts, quote(tag))
	for pos := 0; pos < width; pos++ {
		parts = append(parts, quote(values[pos]))
	}
	return strings.Join(parts, "~")
}

func quote(v string) string { return `"` + v + `"` }

// Sample export widths, matching the record layouts.
const (
	HeaderWidth      = 15
	OrderWidth       = 121
	PackingSlipWidth = 7
	ItemWidth        = 61
)

// HeaderLine returns a header for partner and customer PO.
func HeaderLine(partner, po string) string {
	return Line("H", HeaderWidth, map[int]string{
		0: partner, 1: "856", 2: "00", 3: po,
		4: "20250301", 5: "1015", 6: "20250301", 7: "PS77881",
		12: "186000", 14: "NE",
	})
}

// OrderLine returns an order record shipping to a Henry Schein warehouse.
func OrderLine() string {
	return Line("O", OrderWidth, map[int]string{
		0: "SO-4411", 1: "1", 3: "20250225", 5: "40",
		26: "HENRY SCHEIN//GRAPEVINE,TX", 29: "1 Schein Way",
		31: "Grapevine", 32: "TX", 33: "76051",
		59: "1234567",
	})
}

// PackingSlipLine returns a packing slip for scac.
func PackingSlipLine(scac string) string {
	return Line("PS", PackingSlipWidth, map[int]string{
		0: "PS77881", 3: "397259", 4: "Evergreen Freight", 5: "EVR", 6: scac,
	})
}

// ItemLine returns an item record with a scaled shipped quantity.
func ItemLine(lineNumber, item, po string) string {
	return Line("I", ItemWidth, map[int]string{
		0: lineNumber, 1: item, 5: "1112223", 7: "Sterile/Gauze Pads",
		8: po, 10: "CA", 11: "20000", 12: "20000", 16: "12525", 26: "Y",
	})
}

// LotLine returns a lot record in the raw export form.
func LotLine(code, qty string) string {
	return Line("LT", 2, map[int]string{0: "Lot//Qty: " + code + "|" + qty, 1: qty})
}

// SampleShipment returns one partner block with a single lot-tracked item.
func SampleShipment(partner, po, lot string) []string {
	return []string{
		HeaderLine(partner, po),
		OrderLine(),
		PackingSlipLine("EVER"),
		ItemLine("11", "9998R1", po),
		LotLine(lot, "20"),
	}
}

// SampleExport returns an export holding a foreign partner's shipment
// followed by one HENRYSCHEIN shipment for PO 525251000501.
func SampleExport() string {
	lines := []string{
		HeaderLine("OWENSMINOR", "OM-1"),
		ItemLine("1", "1000", "OM-1"),
	}
	lines = append(lines, SampleShipment("HENRYSCHEIN", "525251000501", "2230809")...)
	return strings.Join(lines, "\n") + "\n"
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
