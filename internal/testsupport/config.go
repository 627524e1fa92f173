package testsupport

import (
	"path/filepath"
	"testing"

	"mdxport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "logs", "history.db")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMode sets the export output mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.Mode = mode
	}
}

// WithNtfyTopic points notifications at the given endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
