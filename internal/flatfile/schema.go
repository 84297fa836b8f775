package flatfile

import (
	"strconv"
	"strings"
)

// Record tags.
const (
	TagHeader      = "H"
	TagOrder       = "O"
	TagPackingSlip = "PS"
	TagItem        = "I"
	TagLot         = "LT"
)

// Kind is how a field value is interpreted.
type Kind int

const (
	KindText Kind = iota
	// KindInteger is divided by its scale and truncated toward zero.
	KindInteger
	// KindFraction is divided by its scale keeping the fractional part.
	KindFraction
	// KindFlag is true when the raw value is non-empty.
	KindFlag
)

// Field describes one named position of a schema.
type Field struct {
	Name     string
	Position int
	Kind     Kind
	Scale    int64
}

// Schema is the positional layout of a record tag. Positions are 0-based and
// counted after the tag field.
type Schema struct {
	Tag    string
	Width  int
	fields map[int]Field
	names  []string
}

func newSchema(tag string, width int, fields ...Field) Schema {
	s := Schema{Tag: tag, Width: width, fields: make(map[int]Field, len(fields))}
	for _, f := range fields {
		s.fields[f.Position] = f
	}
	s.names = make([]string, width)
	for pos := range s.names {
		if f, ok := s.fields[pos]; ok {
			s.names[pos] = f.Name
		} else {
			s.names[pos] = placeholderName(pos)
		}
	}
	return s
}

func text(pos int, name string) Field { return Field{Name: name, Position: pos} }

func integer(pos int, name string, scale int64) Field {
	return Field{Name: name, Position: pos, Kind: KindInteger, Scale: scale}
}

func fraction(pos int, name string, scale int64) Field {
	return Field{Name: name, Position: pos, Kind: KindFraction, Scale: scale}
}

func flag(pos int, name string) Field { return Field{Name: name, Position: pos, Kind: KindFlag} }

// Names returns the field name for every position, placeholders included.
func (s Schema) Names() []string {
	return append([]string(nil), s.names...)
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Zip pairs tokens with the schema's names. Tokens past the schema width are
// dropped; names past the last token are absent from the result.
func (s Schema) Zip(tokens []string) map[string]string {
	n := min(len(tokens), s.Width)
	out := make(map[string]string, n)
	for i := 0; i < n; i++ {
		out[s.names[i]] = tokens[i]
	}
	return out
}

const placeholderPrefix = "_"

func placeholderName(pos int) string {
	return placeholderPrefix + strconv.Itoa(pos)
}

// IsPlaceholder reports whether name marks a position with no business meaning.
func IsPlaceholder(name string) bool {
	return strings.HasPrefix(name, placeholderPrefix)
}

var schemas = map[string]Schema{
	TagHeader: newSchema(TagHeader, 15,
		text(0, "trading_partner"),
		text(1, "edi_doc"),
		text(2, "doc_type"),
		text(3, "cust_po"),
		text(4, "curr_date"),
		text(5, "curr_time"),
		text(6, "packslip_date"),
		text(7, "packslip"),
		integer(12, "weight", 1000),
		text(14, "territory_code"),
	),
	TagOrder: newSchema(TagOrder, 121,
		text(0, "so"),
		text(1, "shipment_number"),
		text(3, "order_date"),
		text(4, "weight"),
		text(5, "num_of_cases"),
		text(14, "fob"),
		text(15, "terms"),
		text(18, "bill_to_name"),
		text(19, "bill_to_account"),
		text(20, "bill_to_addr"),
		text(21, "bill_to_addr_2"),
		text(22, "bill_to_city"),
		text(23, "bill_to_state"),
		text(24, "bill_to_zip"),
		text(25, "bill_to_country"),
		text(26, "ship_to_name"),
		text(27, "ship_to_account"),
		text(28, "ship_to_id"),
		text(29, "ship_to_addr"),
		text(30, "ship_to_addr_2"),
		text(31, "ship_to_city"),
		text(32, "ship_to_state"),
		text(33, "ship_to_zip"),
		text(34, "ship_to_country"),
		text(35, "manufacturer"),
		text(36, "manufacturer_addr"),
		text(38, "manufacturer_city"),
		text(39, "manufacturer_state"),
		text(40, "manufacturer_zip"),
		text(59, "edi_id"),
		text(63, "ship_type"),
	),
	TagPackingSlip: newSchema(TagPackingSlip, 7,
		text(0, "packslip"),
		text(3, "shipment_ref_number"),
		text(4, "carrier_name"),
		text(5, "carrier_code"),
		text(6, "scac"),
	),
	TagItem: newSchema(TagItem, 61,
		text(0, "line_number"),
		text(1, "item"),
		text(5, "cust_item"),
		text(7, "item_description"),
		text(8, "cust_po"),
		text(10, "uom"),
		integer(11, "quantity_ordered", 1000),
		integer(12, "quantity_shipped", 1000),
		fraction(16, "unit_price", 100),
		flag(26, "rx"),
	),
}

// SchemaFor returns the schema for a record tag.
func SchemaFor(tag string) (Schema, bool) {
	s, ok := schemas[tag]
	return s, ok
}
