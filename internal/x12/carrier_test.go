package x12

import "testing"

func TestIsParcelCarrier(t *testing.T) {
	tests := map[string]bool{
		"FEDX":         true,
		"FDEG":         false,
		"fedex":        true,
		"UPSN":         true,
		"ups ground":   true,
		"EVER":         false,
		"ODFL":         false,
		"":             false,
		"SUPERIOR FED": true,
	}
	for code, want := range tests {
		if got := IsParcelCarrier(code); got != want {
			t.Fatalf("IsParcelCarrier(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestRandomControlNumberShape(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		v := RandomControlNumber()
		if len(v) != controlLength {
			t.Fatalf("unexpected length %d", len(v))
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in %q", v)
			}
		}
		seen[v] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("expected mostly distinct control numbers, got %d of 50", len(seen))
	}
}

func TestSequenceControlNumbers(t *testing.T) {
	next := SequenceControlNumbers("1", "2")
	for _, want := range []string{"1", "2", "2"} {
		if got := next(); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}
