// Package testsupport provides shared helpers for package tests: temp-dir
// configs and tagged audio fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"phono/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Root = base
	cfg.ImportDir = filepath.Join(base, "Import")
	cfg.MusicDir = filepath.Join(base, "Music")
	cfg.ImportedDir = filepath.Join(base, "Imported")
	cfg.ProblemDir = filepath.Join(base, "Problem")
	cfg.ManifestPath = filepath.Join(base, "lib.jsonl")
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithWorkers overrides the repair pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Workers = n
	}
}
