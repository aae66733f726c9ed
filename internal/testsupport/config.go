package testsupport

import (
	"path/filepath"
	"testing"

	"exomatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// and a sqlite catalog inside them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.DocumentsDir = filepath.Join(base, "documents")
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.DSN = filepath.Join(base, "data", "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithThreshold overrides the match threshold.
func WithThreshold(threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Threshold = threshold
	}
}

// WithRegionPolicy overrides the region policy.
func WithRegionPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.RegionPolicy = policy
	}
}

// WithOverwrite lets apply replace fields that already hold a value.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Overwrite = true
	}
}

// WithAutoApprove pre-approves entries at or above the given confidence.
func WithAutoApprove(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.AutoApprove = level
	}
}
