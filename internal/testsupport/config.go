package testsupport

import (
	"path/filepath"
	"testing"

	"creditspanel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The directories are created, and any provided options are applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.BaseURL = "http://127.0.0.1:0"
	cfgVal.Host.UserDataDir = filepath.Join(base, "userdata")
	cfgVal.Host.ProjectFile = filepath.Join(base, "host", "project.json")
	cfgVal.Settings.Path = filepath.Join(base, "state", "settings.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithServer points the config at a backend URL, usually a fake's.
func WithServer(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.BaseURL = url
	}
}

// WithPathStyle overrides the host path convention.
func WithPathStyle(style string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Host.PathStyle = style
	}
}
