package testsupport

import (
	"path/filepath"
	"testing"

	"asn856/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The lot lookup is disabled unless WithLotLookup is supplied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ArchiveDir = ""
	cfgVal.Store.Path = filepath.Join(cfgVal.Paths.StateDir, "documents.db")
	cfgVal.LotLookup.Enabled = false
	cfgVal.LotLookup.TimeoutSeconds = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLotLookup enables the lot lookup against baseURL.
func WithLotLookup(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LotLookup.Enabled = true
		b.cfg.LotLookup.BaseURL = baseURL
	}
}

// WithStoreDriver overrides the persistence backend.
func WithStoreDriver(driver string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Driver = driver
	}
}

// WithArchiveDir enables input archiving under the test base directory.
func WithArchiveDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.ArchiveDir = filepath.Join(b.baseDir, "archive")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
