package testsupport

import (
	"path/filepath"
	"testing"

	"bookvoice/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Backend URLs point nowhere useful; tests that talk to a backend override
// them with WithAttributionURL or WithSpeechURL.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Speech.APIKey = "test"
	cfgVal.Speech.RequestIntervalMS = 1
	cfgVal.Attribution.RetryAttempts = 1
	cfgVal.Speech.RetryAttempts = 1

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

// WithSpeechKey sets the speech API key on the test config.
func WithSpeechKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Speech.APIKey = key
	}
}

// WithAttributionURL points the text backend at url.
func WithAttributionURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Attribution.BaseURL = url
	}
}

// WithSpeechURL points the speech backend at url.
func WithSpeechURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Speech.BaseURL = url
	}
}

// WithWorkers sets the attribution worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Attribution.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
