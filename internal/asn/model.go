package asn

// ShipmentRecord is the structured form of one shipment block.
type ShipmentRecord struct {
	Header      Header      `json:"header"`
	Order       Order       `json:"order"`
	PackingSlip PackingSlip `json:"packing_slip"`
	Items       []Item      `json:"items"`
}

// Header carries the document-level identifiers.
type Header struct {
	TradingPartner string            `json:"trading_partner"`
	EDIDocument    string            `json:"edi_doc,omitempty"`
	DocType        string            `json:"doc_type,omitempty"`
	CustomerPO     string            `json:"cust_po"`
	CurrentDate    string            `json:"curr_date,omitempty"`
	CurrentTime    string            `json:"curr_time,omitempty"`
	PackslipDate   string            `json:"packslip_date,omitempty"`
	Packslip       string            `json:"packslip,omitempty"`
	Weight         *int64            `json:"weight,omitempty"`
	TerritoryCode  string            `json:"territory_code,omitempty"`
	Fields         map[string]string `json:"raw_fields,omitempty"`
}

// Party is a named address block (bill-to, ship-to, manufacturer).
type Party struct {
	Name     string `json:"name,omitempty"`
	Account  string `json:"account,omitempty"`
	ID       string `json:"id,omitempty"`
	Address  string `json:"address,omitempty"`
	Address2 string `json:"address_2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// IsZero reports whether no identifying field of p is set.
func (p Party) IsZero() bool {
	return p.Name == "" && p.Address == "" && p.City == "" && p.State == "" && p.Zip == ""
}

// Order carries the sales order and its party blocks.
type Order struct {
	SalesOrder     string            `json:"so,omitempty"`
	ShipmentNumber string            `json:"shipment_number,omitempty"`
	OrderDate      string            `json:"order_date,omitempty"`
	Weight         string            `json:"weight,omitempty"`
	CaseCount      string            `json:"num_of_cases,omitempty"`
	FOB            string            `json:"fob,omitempty"`
	Terms          string            `json:"terms,omitempty"`
	BillTo         Party             `json:"bill_to"`
	ShipTo         Party             `json:"ship_to"`
	Manufacturer   Party             `json:"manufacturer"`
	EDIID          string            `json:"edi_id,omitempty"`
	ShipType       string            `json:"ship_type,omitempty"`
	Fields         map[string]string `json:"raw_fields,omitempty"`
}

// PackingSlip carries carrier and reference data.
type PackingSlip struct {
	Packslip          string            `json:"packslip,omitempty"`
	ShipmentReference string            `json:"shipment_ref_number,omitempty"`
	CarrierName       string            `json:"carrier_name,omitempty"`
	CarrierCode       string            `json:"carrier_code,omitempty"`
	SCAC              string            `json:"scac,omitempty"`
	Fields            map[string]string `json:"raw_fields,omitempty"`
}

// Item is one ordered line.
type Item struct {
	LineNumber      string            `json:"line_number,omitempty"`
	ItemCode        string            `json:"item,omitempty"`
	CustomerItem    string            `json:"cust_item,omitempty"`
	Description     string            `json:"item_description,omitempty"`
	CustomerPO      string            `json:"cust_po,omitempty"`
	UnitOfMeasure   string            `json:"uom,omitempty"`
	QuantityOrdered *int64            `json:"quantity_ordered,omitempty"`
	QuantityShipped *int64            `json:"quantity_shipped,omitempty"`
	UnitPrice       *float64          `json:"unit_price,omitempty"`
	Rx              bool              `json:"rx"`
	Lot             *Lot              `json:"lot,omitempty"`
	Fields          map[string]string `json:"raw_fields,omitempty"`
}

// Lot is the lot attachment of an item. Expiration is the dash-free YYYYMMDD
// date, or empty when the lookup failed or knew nothing about the lot.
type Lot struct {
	Code       string `json:"code"`
	Quantity   string `json:"quantity,omitempty"`
	Expiration string `json:"expiration,omitempty"`
}

// Complete reports whether both the lot code and its expiration are known.
func (l *Lot) Complete() bool {
	return l != nil && l.Code != "" && l.Expiration != ""
}

// LotLine is a raw lot line waiting for enrichment. Item is the index of the
// item it attaches to; Tokens are the line's fields after the tag.
type LotLine struct {
	Item   int      `json:"item"`
	Tokens []string `json:"tokens"`
}
