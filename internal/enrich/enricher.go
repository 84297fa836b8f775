package enrich

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"asn856/internal/asn"
	"asn856/internal/logging"
	"asn856/internal/services"
	"asn856/internal/services/lotlookup"
)

const lotQtyPrefix = "Lot//Qty: "

// NormalizeLotCode strips the "Lot//Qty: " prefix and the "|qty" suffix that
// follows it. Codes without the prefix are only trimmed.
func NormalizeLotCode(raw string) string {
	code, ok := strings.CutPrefix(raw, lotQtyPrefix)
	if !ok {
		return strings.TrimSpace(raw)
	}
	code, _, _ = strings.Cut(code, "|")
	return strings.TrimSpace(code)
}

// Summary counts the outcome of one Enrich call.
type Summary struct {
	Lots       int
	Resolved   int
	Unresolved int
	Unmatched  int
}

// Enricher resolves lot expirations through a lookup service.
type Enricher struct {
	lookup      lotlookup.Looker
	concurrency int
	logger      *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithConcurrency sets how many lookups may run at once for one shipment.
// Values below 2 keep lookups sequential.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 1 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logging.NewComponentLogger(logger, "enricher")
	}
}

// New returns an Enricher. A nil lookup disables expiration lookups; lots are
// still attached with an empty expiration.
func New(lookup lotlookup.Looker, opts ...Option) *Enricher {
	e := &Enricher{
		lookup:      lookup,
		concurrency: 1,
		logger:      logging.NewComponentLogger(nil, "enricher"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type resolved struct {
	line asn.LotLine
	lot  asn.Lot
}

// Enrich attaches a Lot to the item each lot line points at.
func (e *Enricher) Enrich(ctx context.Context, rec *asn.ShipmentRecord, lines []asn.LotLine) Summary {
	summary := Summary{Lots: len(lines)}
	if rec == nil || len(lines) == 0 {
		return summary
	}
	logger := logging.WithContext(ctx, e.logger)

	results := make([]resolved, len(lines))
	if e.concurrency <= 1 || len(lines) == 1 {
		for i, line := range lines {
			results[i] = resolved{line: line, lot: e.resolve(ctx, logger, line)}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.concurrency)
		for i, line := range lines {
			g.Go(func() error {
				results[i] = resolved{line: line, lot: e.resolve(ctx, logger, line)}
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, r := range results {
		if r.line.Item < 0 || r.line.Item >= len(rec.Items) {
			summary.Unmatched++
			logging.WarnWithContext(logger, "lot line has no matching item", "lot_unmatched",
				logging.String("lot", r.lot.Code),
				logging.Int("item_index", r.line.Item),
				logging.Int("items", len(rec.Items)),
				logging.String(logging.FieldImpact, "lot omitted from document"),
				logging.String(logging.FieldErrorHint, "check the export for extra LT lines"),
			)
			continue
		}
		lot := r.lot
		rec.Items[r.line.Item].Lot = &lot
		if lot.Expiration != "" {
			summary.Resolved++
		} else {
			summary.Unresolved++
		}
	}

	logger.Debug("lots enriched",
		logging.Int("lots", summary.Lots),
		logging.Int("resolved", summary.Resolved),
		logging.Int("unresolved", summary.Unresolved),
	)
	return summary
}

func (e *Enricher) resolve(ctx context.Context, logger *slog.Logger, line asn.LotLine) asn.Lot {
	var lot asn.Lot
	if len(line.Tokens) > 0 {
		lot.Code = NormalizeLotCode(line.Tokens[0])
	}
	if len(line.Tokens) > 1 {
		lot.Quantity = strings.TrimSpace(line.Tokens[1])
	}
	if lot.Code == "" || e.lookup == nil {
		return lot
	}

	expiration, err := e.lookup.Expiration(ctx, lot.Code)
	if err != nil {
		logging.WarnWithContext(logger, "lot lookup failed", "lot_lookup_failed",
			logging.String("lot", lot.Code),
			logging.String("reason", services.Classify(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "lot expiration omitted from document"),
			logging.String(logging.FieldErrorHint, "verify lot_lookup.base_url and service availability"),
		)
		return lot
	}
	if expiration == "" {
		logger.Info("lot expiration unknown", logging.String("lot", lot.Code))
		return lot
	}
	lot.Expiration = strings.ReplaceAll(expiration, "-", "")
	return lot
}
