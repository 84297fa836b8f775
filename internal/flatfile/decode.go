package flatfile

import (
	"log/slog"
	"strings"

	"asn856/internal/asn"
	"asn856/internal/logging"
)

// Decoder turns shipment blocks into records.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder returns a Decoder that logs through logger.
func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{logger: logging.NewComponentLogger(logger, "decoder")}
}

// Decoded is a mapped shipment before lot enrichment.
type Decoded struct {
	Record asn.ShipmentRecord
	Lots   []asn.LotLine
}

// Tokenize strips double quotes and splits a line on "~". The first token is
// the record tag.
func Tokenize(line string) (string, []string) {
	line = strings.TrimRight(line, "\r")
	line = strings.ReplaceAll(line, `"`, "")
	tokens := strings.Split(line, "~")
	return tokens[0], tokens[1:]
}

// Decode maps every line of block onto its schema.
//
// Items keep input order. The k-th lot line attaches to the k-th item; a lot
// line with no data still consumes its item slot so later lot lines stay
// aligned.
func (d *Decoder) Decode(block Block) Decoded {
	var (
		out    Decoded
		lotIdx int
	)
	for i, line := range block.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tag, tokens := Tokenize(line)
		switch tag {
		case TagHeader:
			out.Record.Header = decodeHeader(tokens)
		case TagOrder:
			out.Record.Order = decodeOrder(tokens)
		case TagPackingSlip:
			out.Record.PackingSlip = decodePackingSlip(tokens)
		case TagItem:
			out.Record.Items = append(out.Record.Items, decodeItem(tokens))
		case TagLot:
			if hasData(tokens) {
				out.Lots = append(out.Lots, asn.LotLine{Item: lotIdx, Tokens: tokens})
			}
			lotIdx++
		default:
			d.logger.Debug("unknown record tag ignored",
				logging.String("tag", tag),
				logging.Int("line", block.StartLine+i),
			)
		}
	}
	if lotIdx > len(out.Record.Items) {
		d.logger.Debug("more lot lines than items",
			logging.Int("lot_lines", lotIdx),
			logging.Int("items", len(out.Record.Items)),
			logging.Int("line", block.StartLine),
		)
	}
	return out
}

func hasData(tokens []string) bool {
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

func decodeHeader(tokens []string) asn.Header {
	schema := schemas[TagHeader]
	n := normalizer{schema: schema, fields: schema.Zip(tokens)}
	return asn.Header{
		TradingPartner: n.text("trading_partner"),
		EDIDocument:    n.text("edi_doc"),
		DocType:        n.text("doc_type"),
		CustomerPO:     n.text("cust_po"),
		CurrentDate:    n.text("curr_date"),
		CurrentTime:    n.text("curr_time"),
		PackslipDate:   n.text("packslip_date"),
		Packslip:       n.text("packslip"),
		Weight:         n.integer("weight"),
		TerritoryCode:  n.text("territory_code"),
		Fields:         n.fields,
	}
}

func decodeOrder(tokens []string) asn.Order {
	schema := schemas[TagOrder]
	n := normalizer{schema: schema, fields: schema.Zip(tokens)}
	party := func(prefix string) asn.Party {
		return asn.Party{
			Name:     n.text(prefix + "_name"),
			Account:  n.text(prefix + "_account"),
			ID:       n.text(prefix + "_id"),
			Address:  n.text(prefix + "_addr"),
			Address2: n.text(prefix + "_addr_2"),
			City:     n.text(prefix + "_city"),
			State:    n.text(prefix + "_state"),
			Zip:      n.text(prefix + "_zip"),
			Country:  n.text(prefix + "_country"),
		}
	}
	return asn.Order{
		SalesOrder:     n.text("so"),
		ShipmentNumber: n.text("shipment_number"),
		OrderDate:      n.text("order_date"),
		Weight:         n.text("weight"),
		CaseCount:      n.text("num_of_cases"),
		FOB:            n.text("fob"),
		Terms:          n.text("terms"),
		BillTo:         party("bill_to"),
		ShipTo:         party("ship_to"),
		Manufacturer: asn.Party{
			Name:    n.text("manufacturer"),
			Address: n.text("manufacturer_addr"),
			City:    n.text("manufacturer_city"),
			State:   n.text("manufacturer_state"),
			Zip:     n.text("manufacturer_zip"),
		},
		EDIID:    n.text("edi_id"),
		ShipType: n.text("ship_type"),
		Fields:   n.fields,
	}
}

func decodePackingSlip(tokens []string) asn.PackingSlip {
	schema := schemas[TagPackingSlip]
	n := normalizer{schema: schema, fields: schema.Zip(tokens)}
	return asn.PackingSlip{
		Packslip:          n.text("packslip"),
		ShipmentReference: n.text("shipment_ref_number"),
		CarrierName:       n.text("carrier_name"),
		CarrierCode:       n.text("carrier_code"),
		SCAC:              n.text("scac"),
		Fields:            n.fields,
	}
}

func decodeItem(tokens []string) asn.Item {
	schema := schemas[TagItem]
	n := normalizer{schema: schema, fields: schema.Zip(tokens)}
	return asn.Item{
		LineNumber:      n.text("line_number"),
		ItemCode:        n.text("item"),
		CustomerItem:    n.text("cust_item"),
		Description:     n.text("item_description"),
		CustomerPO:      n.text("cust_po"),
		UnitOfMeasure:   n.text("uom"),
		QuantityOrdered: n.integer("quantity_ordered"),
		QuantityShipped: n.integer("quantity_shipped"),
		UnitPrice:       n.fraction("unit_price"),
		Rx:              n.flag("rx"),
		Fields:          n.fields,
	}
}
