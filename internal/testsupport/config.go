package testsupport

import (
	"path/filepath"
	"testing"

	"cadence/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Acquire.DownloadDir = filepath.Join(base, "downloads")
	cfg.Playback.SocketPath = filepath.Join(base, "cadence.sock")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAcquireCommand sets the external fetch command on the test config.
func WithAcquireCommand(command string, extra ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Acquire.Command = command
		cfg.Acquire.ExtraArgs = extra
	}
}
