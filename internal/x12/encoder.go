package x12

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"asn856/internal/asn"
	"asn856/internal/services"
	"asn856/internal/textutil"
)

// ErrNoItems is returned when a shipment has nothing to put in the item loop.
var ErrNoItems = errors.New("shipment has no items")

const (
	transactionSetID    = "856"
	functionalIDCode    = "SH"
	interchangeVersion  = "00400"
	groupVersion        = "004010"
	defaultPurposeCode  = "00"
	fileExtension       = ".edi"
	envelopeHeaderCount = 2 // ISA and GS precede ST in the segment list
)

// Envelope holds the interchange identities of sender and receiver.
type Envelope struct {
	SenderQualifier   string
	SenderID          string
	ReceiverQualifier string
	ReceiverID        string
	UsageIndicator    string
}

// Document is one encoded 856 interchange.
type Document struct {
	CustomerPO         string    `json:"customer_po"`
	FileName           string    `json:"file_name"`
	InterchangeControl string    `json:"interchange_control"`
	GroupControl       string    `json:"group_control"`
	TransactionControl string    `json:"transaction_control"`
	ItemCount          int       `json:"item_count"`
	CreatedAt          time.Time `json:"created_at"`
	Segments           []Segment `json:"-"`
}

// Text serializes the document.
func (d *Document) Text() string {
	return Join(d.Segments)
}

// Encoder builds 856 documents.
type Encoder struct {
	envelope         Envelope
	shipFrom         asn.Party
	nationalDrugCode string
	now              func() time.Time
	controlNumber    ControlNumberFunc
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

// WithControlNumbers replaces the random control number source.
func WithControlNumbers(fn ControlNumberFunc) Option {
	return func(e *Encoder) {
		if fn != nil {
			e.controlNumber = fn
		}
	}
}

// WithShipFrom sets the manufacturer identity used for empty ship-from fields.
func WithShipFrom(p asn.Party) Option {
	return func(e *Encoder) { e.shipFrom = p }
}

// WithNationalDrugCode sets the value emitted after the ND qualifier.
func WithNationalDrugCode(code string) Option {
	return func(e *Encoder) { e.nationalDrugCode = code }
}

// NewEncoder returns an Encoder for the given envelope.
func NewEncoder(env Envelope, opts ...Option) (*Encoder, error) {
	if err := validateIdentifier("sender id", env.SenderID); err != nil {
		return nil, err
	}
	if err := validateIdentifier("receiver id", env.ReceiverID); err != nil {
		return nil, err
	}
	if env.UsageIndicator == "" {
		env.UsageIndicator = "P"
	}
	e := &Encoder{
		envelope:      env,
		now:           time.Now,
		controlNumber: RandomControlNumber,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func validateIdentifier(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s required", name)
	}
	if len(value) > 15 {
		return fmt.Errorf("%s %q longer than 15 characters", name, value)
	}
	return nil
}

// Encode builds the 856 document for rec. It fails only when rec has no items.
func (e *Encoder) Encode(rec *asn.ShipmentRecord) (*Document, error) {
	if rec == nil || len(rec.Items) == 0 {
		return nil, services.Wrap(services.ErrValidation, "encoder", "856", "customer po "+poOf(rec), ErrNoItems)
	}

	now := e.now()
	doc := &Document{
		CustomerPO:         rec.Header.CustomerPO,
		InterchangeControl: e.controlNumber(),
		GroupControl:       e.controlNumber(),
		TransactionControl: e.controlNumber(),
		ItemCount:          len(rec.Items),
		CreatedAt:          now,
	}
	doc.FileName = FileName(rec.Header.CustomerPO, doc.InterchangeControl)

	date := now.Format("20060102")
	clock := now.Format("1504")

	segs := []Segment{
		seg(segISA,
			"00", strings.Repeat(" ", 10),
			"00", strings.Repeat(" ", 10),
			e.envelope.SenderQualifier, pad(e.envelope.SenderID, 15),
			e.envelope.ReceiverQualifier, pad(e.envelope.ReceiverID, 15),
			now.Format("060102"), clock,
			"U", interchangeVersion, doc.InterchangeControl,
			"0", e.envelope.UsageIndicator, ComponentSeparator,
		),
		seg(segGS, functionalIDCode, e.envelope.SenderID, e.envelope.ReceiverID,
			date, clock, doc.GroupControl, "X", groupVersion),
		seg(segST, transactionSetID, doc.TransactionControl),
		seg(segBSN, orDefault(rec.Header.DocType, defaultPurposeCode), rec.Header.CustomerPO,
			date, now.Format("150405")),
	}
	segs = append(segs, e.shipmentLevel(rec)...)
	segs = append(segs,
		seg(segHL, "2", "1", "O"),
		seg(segPRF, rec.Items[0].CustomerPO),
	)
	segs = append(segs, e.itemLevels(rec.Items)...)
	segs = append(segs, seg(segCTT, strconv.Itoa(len(rec.Items))))

	// SE01 counts ST through SE inclusive: everything emitted so far plus SE,
	// less the two envelope headers.
	segs = append(segs,
		seg(segSE, strconv.Itoa(len(segs)+1-envelopeHeaderCount), doc.TransactionControl),
		seg(segGE, "1", doc.GroupControl),
		seg(segIEA, "1", doc.InterchangeControl),
	)
	doc.Segments = segs
	return doc, nil
}

func (e *Encoder) shipmentLevel(rec *asn.ShipmentRecord) []Segment {
	h, o, ps := rec.Header, rec.Order, rec.PackingSlip
	parcel := IsParcelCarrier(ps.SCAC)

	segs := []Segment{
		seg(segHL, "1", "0", "S"),
		seg(segTD1, "CTN", o.CaseCount, "", "", "", "A3", formatInt(h.Weight), "01"),
		seg(segTD5, "", "2", ps.SCAC, "", ps.ShipmentReference),
		seg(segREF, textutil.Ternary(parcel, QualifierParcelTracking, QualifierCarrierRef), ps.ShipmentReference),
	}
	if !parcel {
		segs = append(segs, seg(segREF, QualifierBillOfLading, h.Packslip))
	}
	segs = append(segs, seg(segDTM, "011", h.CurrentDate))

	mfr := e.manufacturer(o.Manufacturer)
	segs = append(segs,
		seg(segN1, "SF", textutil.Upper(mfr.Name)),
		seg(segN3, textutil.Upper(mfr.Address)),
		seg(segN4, textutil.Upper(mfr.City), textutil.Upper(mfr.State), textutil.Upper(mfr.Zip)),
		seg(segN1, "ST", textutil.EDIText(o.ShipTo.Name), "ZZ", o.EDIID),
		seg(segN3, textutil.Upper(o.ShipTo.Address)),
		seg(segN4, textutil.Upper(o.ShipTo.City), textutil.Upper(o.ShipTo.State), textutil.Upper(o.ShipTo.Zip)),
	)
	return segs
}

func (e *Encoder) manufacturer(p asn.Party) asn.Party {
	return asn.Party{
		Name:    orDefault(p.Name, e.shipFrom.Name),
		Address: orDefault(p.Address, e.shipFrom.Address),
		City:    orDefault(p.City, e.shipFrom.City),
		State:   orDefault(p.State, e.shipFrom.State),
		Zip:     orDefault(p.Zip, e.shipFrom.Zip),
	}
}

func (e *Encoder) itemLevels(items []asn.Item) []Segment {
	segs := make([]Segment, 0, len(items)*5)
	for idx, item := range items {
		line := orDefault(item.LineNumber, strconv.Itoa(idx+1))
		complete := item.Lot.Complete()

		lin := seg(segLIN, line, "VC", item.ItemCode)
		if item.CustomerItem != "" {
			lin = append(lin, "CB", item.CustomerItem)
		} else {
			lin = append(lin, "", "")
		}
		if complete {
			lin = append(lin, "ND", e.nationalDrugCode, "LT", item.Lot.Code)
		} else {
			lin = append(lin, "", "", "", "")
		}

		segs = append(segs,
			seg(segHL, strconv.Itoa(idx+3), "2", "I"),
			lin,
			seg(segSN1, line, formatInt(item.QuantityOrdered), "CA"),
			seg(segPID, "F", "", "", "", textutil.EDIText(item.Description)),
		)
		if complete {
			segs = append(segs, seg(segDTM, "036", strings.ReplaceAll(item.Lot.Expiration, "-", "")))
		}
	}
	return segs
}

// FileName returns the output file name for a customer PO. Documents without
// a usable PO are named after their interchange control number.
func FileName(customerPO, interchangeControl string) string {
	name := textutil.SanitizeFileName(customerPO)
	if name == "" {
		name = "shipment-" + interchangeControl
	}
	return name + fileExtension
}

func poOf(rec *asn.ShipmentRecord) string {
	if rec == nil || rec.Header.CustomerPO == "" {
		return "(none)"
	}
	return rec.Header.CustomerPO
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func pad(value string, width int) string {
	return fmt.Sprintf("%-*s", width, value)
}
