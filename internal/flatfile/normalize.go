package flatfile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ScaleInteger divides raw by scale and truncates toward zero. It returns nil
// when raw is blank or not a number.
func ScaleInteger(raw string, scale int64) *int64 {
	d, ok := parseScaled(raw, scale)
	if !ok {
		return nil
	}
	v := d.IntPart()
	return &v
}

// ScaleFraction divides raw by scale keeping the fractional part. It returns
// nil when raw is blank or not a number.
func ScaleFraction(raw string, scale int64) *float64 {
	d, ok := parseScaled(raw, scale)
	if !ok {
		return nil
	}
	v, _ := d.Float64()
	return &v
}

// Flag reports whether raw carries any value.
func Flag(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

func parseScaled(raw string, scale int64) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if scale > 1 {
		d = d.Div(decimal.NewFromInt(scale))
	}
	return d, true
}

// normalizer converts one mapped field set using its schema's field table so
// each scale factor is applied exactly once.
type normalizer struct {
	schema Schema
	fields map[string]string
}

func (n normalizer) text(name string) string {
	return n.fields[name]
}

func (n normalizer) integer(name string) *int64 {
	f, ok := n.schema.Field(name)
	if !ok || f.Kind != KindInteger {
		return nil
	}
	return ScaleInteger(n.fields[name], f.Scale)
}

func (n normalizer) fraction(name string) *float64 {
	f, ok := n.schema.Field(name)
	if !ok || f.Kind != KindFraction {
		return nil
	}
	return ScaleFraction(n.fields[name], f.Scale)
}

func (n normalizer) flag(name string) bool {
	return Flag(n.fields[name])
}
