package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"asn856/internal/config"
	"asn856/internal/logging"
	"asn856/internal/pipeline"
	"asn856/internal/services"
	"asn856/internal/store"
	"asn856/internal/testsupport"
	"asn856/internal/x12"
)

func lotServer(t *testing.T, expirations map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		exp, ok := expirations[r.URL.Query().Get("lot")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"expiration": exp})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newProcessor(t *testing.T, cfg *config.Config, st store.Store, opts ...pipeline.Option) *pipeline.Processor {
	t.Helper()
	opts = append([]pipeline.Option{
		pipeline.WithEncoderOptions(x12.WithClock(func() time.Time {
			return time.Date(2025, time.March, 1, 10, 15, 30, 0, time.UTC)
		})),
	}, opts...)
	p, err := pipeline.New(cfg, st, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return p
}

func TestGenerateEndToEnd(t *testing.T) {
	srv, calls := lotServer(t, map[string]string{"2230809": "2025-08-30"})
	cfg := testsupport.NewConfig(t, testsupport.WithLotLookup(srv.URL))
	st := testsupport.MustOpenStore(t, cfg)
	p := newProcessor(t, cfg, st)

	report, err := p.Generate(context.Background(), strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 shipment, got %d", len(report.Results))
	}
	if report.RunID == "" {
		t.Fatal("expected run id")
	}
	res := report.Results[0]
	if res.Status != pipeline.StatusGenerated || len(res.Warnings) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 lookup, got %d", calls.Load())
	}

	text := res.Document.Text()
	for _, want := range []string{
		"LIN*11*VC*9998R1*CB*1112223*ND*101419*LT*2230809",
		"SN1*11*20*CA",
		"DTM*036*20250830",
		"TD1*CTN*40****A3*186*01",
		"REF*CN*397259",
		"REF*BM*PS77881",
		"N1*ST*HENRY SCHEIN GRAPEVINE,TX*ZZ*1234567",
		"PID*F****STERILE GAUZE PADS",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "OM-1") {
		t.Fatal("foreign partner shipment leaked into output")
	}

	written, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "525251000501.edi"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != text {
		t.Fatal("written file differs from encoded document")
	}

	stored, err := st.Get(context.Background(), "525251000501")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if stored.Body != text || stored.RunID != report.RunID {
		t.Fatalf("stored document mismatch: %+v", stored)
	}
}

func TestGenerateDuplicatePOIsNotFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	p := newProcessor(t, cfg, st)

	ctx := context.Background()
	if _, err := p.Generate(ctx, strings.NewReader(testsupport.SampleExport())); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	report, err := p.Generate(ctx, strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	res := report.Results[0]
	if res.Status != pipeline.StatusDuplicate {
		t.Fatalf("expected duplicate status, got %s", res.Status)
	}
	if res.Document == nil || res.Document.Text() == "" {
		t.Fatal("duplicate should still return the encoded document")
	}
	if report.Failed() {
		t.Fatal("duplicate must not count as a failure")
	}
}

func TestGenerateContinuesPastShipmentWithoutItems(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStoreDriver(config.StoreDriverNone))
	p := newProcessor(t, cfg, nil)

	lines := []string{
		testsupport.HeaderLine("HENRYSCHEIN", "EMPTY-1"),
		testsupport.OrderLine(),
	}
	lines = append(lines, testsupport.SampleShipment("HENRYSCHEIN", "PO-2", "L2")...)

	report, err := p.Generate(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	first, second := report.Results[0], report.Results[1]
	if first.Status != pipeline.StatusFailed || !errors.Is(first.Err, x12.ErrNoItems) {
		t.Fatalf("expected first shipment to fail with ErrNoItems, got %+v", first)
	}
	if !errors.Is(first.Err, services.ErrValidation) {
		t.Fatal("encoding failure should carry the validation marker")
	}
	if second.Status != pipeline.StatusGenerated {
		t.Fatalf("second shipment should still generate, got %+v", second)
	}
	if !report.Failed() || report.Clean() {
		t.Fatal("report should reflect the failed shipment")
	}
}

func TestGenerateLookupFailureDegrades(t *testing.T) {
	srv, _ := lotServer(t, map[string]string{})
	cfg := testsupport.NewConfig(t, testsupport.WithLotLookup(srv.URL))
	p := newProcessor(t, cfg, nil)

	report, err := p.Generate(context.Background(), strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res := report.Results[0]
	if res.Status != pipeline.StatusGenerated {
		t.Fatalf("unexpected status %s", res.Status)
	}
	if len(res.Warnings) != 1 || res.Lots.Unresolved != 1 {
		t.Fatalf("expected one unresolved-lot warning, got %+v", res)
	}
	text := res.Document.Text()
	if strings.Contains(text, "DTM*036") || !strings.Contains(text, "LIN*11*VC*9998R1*CB*1112223****") {
		t.Fatalf("unresolved lot should leave placeholders\n%s", text)
	}
}

func TestGenerateOutputWriteFailureIsWarning(t *testing.T) {
	srv, _ := lotServer(t, map[string]string{"2230809": "2025-08-30"})
	cfg := testsupport.NewConfig(t,
		testsupport.WithStoreDriver(config.StoreDriverNone),
		testsupport.WithLotLookup(srv.URL),
	)
	blocker := filepath.Join(testsupport.BaseDir(cfg), "blocker")
	testsupport.WriteFile(t, blocker, "x")
	cfg.Paths.OutputDir = filepath.Join(blocker, "out")
	p := newProcessor(t, cfg, nil)

	report, err := p.Generate(context.Background(), strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res := report.Results[0]
	if res.Status != pipeline.StatusGenerated || res.OutputPath != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Lots.Resolved != 1 {
		t.Fatalf("expected the lot to resolve, got %+v", res.Lots)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "output not written") {
		t.Fatalf("expected output warning, got %v", res.Warnings)
	}
}

func TestGenerateDryRunHasNoSideEffects(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithArchiveDir())
	st := testsupport.MustOpenStore(t, cfg)
	p := newProcessor(t, cfg, st, pipeline.WithDryRun(true))

	path := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "export.txt"), testsupport.SampleExport())
	report, err := p.GenerateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if !report.DryRun || report.Results[0].Document == nil {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := st.Get(context.Background(), "525251000501"); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("dry run should not persist, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "525251000501.edi")); !os.IsNotExist(err) {
		t.Fatalf("dry run should not write output, stat err = %v", err)
	}
	if report.ArchivedTo != "" {
		t.Fatal("dry run should not archive")
	}
}

func TestGenerateFileArchivesCleanBatch(t *testing.T) {
	srv, _ := lotServer(t, map[string]string{"2230809": "2025-08-30"})
	cfg := testsupport.NewConfig(t, testsupport.WithLotLookup(srv.URL), testsupport.WithArchiveDir())
	st := testsupport.MustOpenStore(t, cfg)
	p := newProcessor(t, cfg, st, pipeline.WithClock(func() time.Time {
		return time.Date(2025, time.March, 1, 10, 15, 30, 0, time.UTC)
	}))

	path := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "export.txt"), testsupport.SampleExport())
	report, err := p.GenerateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	want := filepath.Join(cfg.Paths.ArchiveDir, "export-20250301T101530Z.txt")
	if report.ArchivedTo != want {
		t.Fatalf("ArchivedTo = %q, want %q", report.ArchivedTo, want)
	}
	if report.Source != path {
		t.Fatalf("Source = %q", report.Source)
	}
}

func TestGenerateFileRespectsRunLock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStoreDriver(config.StoreDriverNone))
	lock, err := pipeline.AcquireLock(cfg)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer lock.Release()

	p := newProcessor(t, cfg, nil)
	path := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "export.txt"), testsupport.SampleExport())
	if _, err := p.GenerateFile(context.Background(), path); !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := p.GenerateFile(context.Background(), path); err != nil {
		t.Fatalf("GenerateFile after release: %v", err)
	}
}

func TestParseReturnsCleanRecords(t *testing.T) {
	srv, _ := lotServer(t, map[string]string{"2230809": "2025-08-30"})
	cfg := testsupport.NewConfig(t, testsupport.WithLotLookup(srv.URL))
	p := newProcessor(t, cfg, nil)

	records, err := p.Parse(context.Background(), strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	item := records[0].Items[0]
	if item.Lot == nil || item.Lot.Code != "2230809" || item.Lot.Quantity != "20" || item.Lot.Expiration != "20250830" {
		t.Fatalf("unexpected lot %+v", item.Lot)
	}
	for key := range item.Fields {
		if strings.HasPrefix(key, "_") {
			t.Fatalf("placeholder %q survived parsing", key)
		}
	}
}

func TestGenerateRunIDFromContext(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStoreDriver(config.StoreDriverNone))
	p := newProcessor(t, cfg, nil)

	ctx := services.WithRunID(context.Background(), "fixed-run")
	report, err := p.Generate(ctx, strings.NewReader(testsupport.SampleExport()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.RunID != "fixed-run" {
		t.Fatalf("RunID = %q", report.RunID)
	}
}

func TestNewRejectsBadLookupURL(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLotLookup("not a url"))
	if _, err := pipeline.New(cfg, nil, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
