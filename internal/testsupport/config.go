package testsupport

import (
	"path/filepath"
	"testing"

	"bodywise/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Analysis.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Profile.Path = filepath.Join(base, "profile.toml")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAnalysisBaseURL points the analysis client at a test server.
func WithAnalysisBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.BaseURL = url
	}
}

// WithFastTimings shrinks all capture timings for tests.
func WithFastTimings() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Capture.SampleInterval = 0.01
		cfg.Capture.PrepDelay = 0.005
		cfg.Capture.CaptureDwell = 0.005
		cfg.Capture.ConfirmDwell = 0.005
	}
}
