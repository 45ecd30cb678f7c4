package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("config file should not exist")
	}
	if cfg.ImportDir != filepath.Join(cfg.Root, "Import") {
		t.Fatalf("import dir not derived from root: %s", cfg.ImportDir)
	}
	if cfg.ProblemDir != filepath.Join(cfg.Root, "Problem") {
		t.Fatalf("problem dir not derived from root: %s", cfg.ProblemDir)
	}
	if cfg.ManifestPath != filepath.Join(cfg.Root, "lib.jsonl") {
		t.Fatalf("manifest path not derived from root: %s", cfg.ManifestPath)
	}
	if cfg.Workers < 1 {
		t.Fatalf("workers default must be positive, got %d", cfg.Workers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
root = "` + dir + `/player"
import_dir = "` + dir + `/inbox"

[repair]
workers = 3

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be loaded", path)
	}
	if cfg.ImportDir != filepath.Join(dir, "inbox") {
		t.Fatalf("explicit import dir not honored: %s", cfg.ImportDir)
	}
	if cfg.MusicDir != filepath.Join(dir, "player", "Music") {
		t.Fatalf("music dir not derived from root: %s", cfg.MusicDir)
	}
	if cfg.Workers != 3 {
		t.Fatalf("workers = %d, want 3", cfg.Workers)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != "debug" {
		t.Fatalf("logging overrides not honored: %s/%s", cfg.LogFormat, cfg.LogLevel)
	}
}

func TestValidateRejectsSharedDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
root = "` + dir + `"
import_dir = "` + dir + `/same"
problem_dir = "` + dir + `/same"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "share") {
		t.Fatalf("expected shared-directory validation error, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Root = t.TempDir()
	cfg.LogFormat = "yaml"
	if err := cfg.normalizePaths(); err != nil {
		t.Fatal(err)
	}
	cfg.normalizeRepair()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected log format validation error")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/Player")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "Player") {
		t.Fatalf("expand ~/Player = %s", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if cfg.RescanInterval != defaultRescanInterval {
		t.Fatalf("sample rescan interval = %d", cfg.RescanInterval)
	}
}
