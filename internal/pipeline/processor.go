package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"asn856/internal/asn"
	"asn856/internal/config"
	"asn856/internal/enrich"
	"asn856/internal/fileutil"
	"asn856/internal/flatfile"
	"asn856/internal/logging"
	"asn856/internal/services"
	"asn856/internal/services/lotlookup"
	"asn856/internal/store"
	"asn856/internal/x12"
)

// Processor converts exports into 856 documents.
type Processor struct {
	cfg      *config.Config
	store    store.Store
	logger   *slog.Logger
	splitter *flatfile.Splitter
	decoder  *flatfile.Decoder
	enricher *enrich.Enricher
	encoder  *x12.Encoder
	now      func() time.Time
	dryRun   bool
}

// Option configures a Processor.
type Option func(*options)

type options struct {
	lookup      lotlookup.Looker
	lookupSet   bool
	encoderOpts []x12.Option
	now         func() time.Time
	dryRun      bool
}

// WithLookup replaces the lookup client built from configuration. A nil
// lookup disables expiration lookups.
func WithLookup(lookup lotlookup.Looker) Option {
	return func(o *options) {
		o.lookup = lookup
		o.lookupSet = true
	}
}

// WithEncoderOptions passes extra options to the 856 encoder.
func WithEncoderOptions(opts ...x12.Option) Option {
	return func(o *options) { o.encoderOpts = append(o.encoderOpts, opts...) }
}

// WithClock replaces time.Now for archive stamps and run timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDryRun encodes without persisting, writing, or archiving.
func WithDryRun(enabled bool) Option {
	return func(o *options) { o.dryRun = enabled }
}

// New builds a Processor from configuration. st may be nil when persistence
// is disabled.
func New(cfg *config.Config, st store.Store, logger *slog.Logger, opts ...Option) (*Processor, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "config required", nil)
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lookup := o.lookup
	if !o.lookupSet {
		var err error
		if lookup, err = NewLookup(cfg); err != nil {
			return nil, err
		}
	}

	splitter, err := flatfile.NewSplitter(cfg.Partner.ID, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "splitter", err)
	}

	encoderOpts := append([]x12.Option{
		x12.WithNationalDrugCode(cfg.Partner.NationalDrugCode),
		x12.WithShipFrom(asn.Party{
			Name:    cfg.ShipFrom.Name,
			Address: cfg.ShipFrom.Address,
			City:    cfg.ShipFrom.City,
			State:   cfg.ShipFrom.State,
			Zip:     cfg.ShipFrom.Zip,
		}),
	}, o.encoderOpts...)
	encoder, err := x12.NewEncoder(x12.Envelope{
		SenderQualifier:   cfg.Partner.SenderQualifier,
		SenderID:          cfg.Partner.SenderID,
		ReceiverQualifier: cfg.Partner.ReceiverQualifier,
		ReceiverID:        cfg.Partner.ReceiverID,
		UsageIndicator:    cfg.Partner.UsageIndicator,
	}, encoderOpts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "encoder", err)
	}

	enricherOpts := []enrich.Option{enrich.WithLogger(logger)}
	enricherOpts = append(enricherOpts, enrich.WithConcurrency(cfg.LotLookup.Concurrency))

	return &Processor{
		cfg:      cfg,
		store:    st,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		splitter: splitter,
		decoder:  flatfile.NewDecoder(logger),
		enricher: enrich.New(lookup, enricherOpts...),
		encoder:  encoder,
		now:      o.now,
		dryRun:   o.dryRun,
	}, nil
}

// NewLookup builds the lot lookup client, or returns nil when lookups are
// disabled.
func NewLookup(cfg *config.Config) (lotlookup.Looker, error) {
	if cfg == nil || !cfg.LotLookup.Enabled {
		return nil, nil
	}
	client, err := lotlookup.New(cfg.LotLookup.BaseURL, lotlookup.WithTimeout(cfg.LookupTimeout()))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "lot lookup", err)
	}
	return client, nil
}

// Split cuts the export into shipment blocks.
func (p *Processor) Split(r io.Reader) ([]flatfile.Block, error) {
	blocks, err := p.splitter.Split(r)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "splitter", "read", "export", err)
	}
	return blocks, nil
}

// Parse returns the clean shipment record of every block in the export.
func (p *Processor) Parse(ctx context.Context, r io.Reader) ([]asn.ShipmentRecord, error) {
	blocks, err := p.Split(r)
	if err != nil {
		return nil, err
	}
	ctx = withRun(ctx)
	records := make([]asn.ShipmentRecord, 0, len(blocks))
	for i, block := range blocks {
		shipCtx := services.WithShipmentIndex(ctx, i+1)
		rec, _ := p.Record(shipCtx, block)
		records = append(records, *rec)
	}
	return records, nil
}

// Record decodes, enriches, and sanitizes one block.
func (p *Processor) Record(ctx context.Context, block flatfile.Block) (*asn.ShipmentRecord, enrich.Summary) {
	decoded := p.decoder.Decode(block)
	rec := decoded.Record
	summary := p.enricher.Enrich(services.WithCustomerPO(ctx, rec.Header.CustomerPO), &rec, decoded.Lots)
	flatfile.Sanitize(&rec)
	return &rec, summary
}

// Generate converts every shipment of the export. Per-shipment failures are
// recorded on their Result; the returned error covers only unreadable input.
func (p *Processor) Generate(ctx context.Context, r io.Reader) (*Report, error) {
	start := p.now()
	ctx = withRun(ctx)
	runID, _ := services.RunIDFromContext(ctx)
	logger := logging.WithContext(ctx, p.logger)

	blocks, err := p.Split(r)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		logging.WarnWithContext(logger, "no shipments found for trading partner", "no_shipments",
			logging.String("partner", p.cfg.Partner.ID),
			logging.String(logging.FieldImpact, "nothing generated"),
			logging.String(logging.FieldErrorHint, "check partner.id against the export header lines"),
		)
	}

	report := &Report{RunID: runID, DryRun: p.dryRun, Results: make([]Result, 0, len(blocks))}
	for i, block := range blocks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, p.convert(services.WithShipmentIndex(ctx, i+1), i+1, block))
	}
	report.Duration = p.now().Sub(start)

	logger.Info("batch complete",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("shipments", len(report.Results)),
		logging.Int("generated", report.Count(StatusGenerated)),
		logging.Int("duplicates", report.Count(StatusDuplicate)),
		logging.Int("failed", report.Count(StatusFailed)),
		logging.Bool("dry_run", p.dryRun),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// GenerateFile runs Generate over the file at path while holding the run
// lock, then archives the file when every shipment converted cleanly.
func (p *Processor) GenerateFile(ctx context.Context, path string) (*Report, error) {
	if !p.dryRun {
		lock, err := AcquireLock(p.cfg)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				p.logger.Warn("failed to release run lock", logging.Error(err),
					logging.String(logging.FieldEventType, "lock_release_failed"),
					logging.String(logging.FieldErrorHint, "remove "+p.cfg.LockPath()+" if no run is active"),
					logging.String(logging.FieldImpact, "next run may report the lock as held"),
				)
			}
		}()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "open", path, err)
	}
	report, err := p.Generate(ctx, file)
	_ = file.Close()
	if err != nil {
		return report, err
	}
	report.Source = path

	if !p.dryRun && p.cfg.Paths.ArchiveDir != "" && len(report.Results) > 0 && report.Clean() {
		archived, err := fileutil.Archive(path, p.cfg.Paths.ArchiveDir, p.now())
		if err != nil {
			logging.WarnWithContext(p.logger, "failed to archive export", "archive_failed",
				logging.String("source", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "export left unarchived"),
				logging.String(logging.FieldErrorHint, "check paths.archive_dir permissions"),
			)
		} else {
			report.ArchivedTo = archived
			p.logger.Info("export archived", logging.String("source", path), logging.String("archive", archived))
		}
	}
	return report, nil
}

func (p *Processor) convert(ctx context.Context, index int, block flatfile.Block) Result {
	res := Result{Index: index, StartLine: block.StartLine}

	rec, summary := p.Record(services.WithStage(ctx, "decode"), block)
	res.CustomerPO = rec.Header.CustomerPO
	res.Lots = summary
	ctx = services.WithCustomerPO(ctx, rec.Header.CustomerPO)
	logger := logging.WithContext(ctx, p.logger)

	if summary.Unresolved > 0 {
		res.warn(strconv.Itoa(summary.Unresolved) + " lot(s) without expiration")
	}
	if summary.Unmatched > 0 {
		res.warn(strconv.Itoa(summary.Unmatched) + " lot line(s) without a matching item")
	}

	doc, err := p.encoder.Encode(rec)
	if err != nil {
		res.fail(err)
		logging.ErrorWithContext(logger, "shipment not encoded", "encode_failed",
			logging.Int("line", block.StartLine),
			logging.Error(err),
			logging.String(logging.FieldImpact, "no 856 generated for this shipment"),
			logging.String(logging.FieldErrorHint, "the shipment block has no item lines"),
		)
		return res
	}
	res.Document = doc
	res.FileName = doc.FileName
	res.Status = StatusGenerated

	if p.dryRun {
		logger.Info("shipment encoded (dry run)", logging.String("file", doc.FileName), logging.Int("items", doc.ItemCount))
		return res
	}

	p.persist(ctx, logger, &res)
	p.write(logger, &res)

	logger.Info("shipment generated",
		logging.String(logging.FieldEventType, "shipment_generated"),
		logging.String("file", doc.FileName),
		logging.String("interchange_control", doc.InterchangeControl),
		logging.Int("items", doc.ItemCount),
		logging.String("status", string(res.Status)),
	)
	return res
}

func (p *Processor) persist(ctx context.Context, logger *slog.Logger, res *Result) {
	if p.store == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	err := p.store.Save(ctx, store.FromEncoded(res.Document, runID))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrDuplicateDocument):
		res.Status = StatusDuplicate
		res.warn("document already recorded for this customer po")
		logging.WarnWithContext(logger, "duplicate customer po", "duplicate_document",
			logging.Error(err),
			logging.String(logging.FieldImpact, "stored document kept; new document not recorded"),
			logging.String(logging.FieldErrorHint, "inspect with: asn856 documents show "+res.CustomerPO),
		)
	default:
		res.warn("document not persisted: " + err.Error())
		logging.WarnWithContext(logger, "failed to persist document", "persist_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "document generated but not recorded"),
			logging.String(logging.FieldErrorHint, "check the [store] configuration"),
		)
	}
}

func (p *Processor) write(logger *slog.Logger, res *Result) {
	dir := p.cfg.Paths.OutputDir
	if dir == "" {
		return
	}
	target := filepath.Join(dir, res.Document.FileName)
	if err := fileutil.WriteFileAtomic(target, []byte(res.Document.Text()), 0o644); err != nil {
		res.warn(fmt.Sprintf("output not written: %v", err))
		logging.WarnWithContext(logger, "failed to write EDI file", "output_write_failed",
			logging.String("path", target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "document not copied to the output directory"),
			logging.String(logging.FieldErrorHint, "check paths.output_dir permissions"),
		)
		return
	}
	res.OutputPath = target
}

func withRun(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRunID(ctx, uuid.NewString())
}
