package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"phono/internal/testsupport"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
root = %q

[repair]
workers = 2

[logging]
format = "console"
level = "error"
`, filepath.Join(base, "player"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCommandEndToEnd(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	importDir := filepath.Join(base, "player", "Import")

	testsupport.WriteTaggedFile(t, filepath.Join(importDir, "track.mp3"), testsupport.TagFixture{
		Title: "A", Artist: "B", Album: "C", Track: 3, LengthMS: 200_000,
	})

	out, err := runCommand(t, configPath, "import")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 1 of 1 files") {
		t.Fatalf("unexpected output: %s", out)
	}

	library := filepath.Join(base, "player", "Music", "B", "C", "03 - A.mp3")
	if _, err := os.Stat(library); err != nil {
		t.Fatalf("library file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "player", "lib.jsonl")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	out, err = runCommand(t, configPath, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	for _, want := range []string{"A", "B", "C", formatDuration(200 * time.Second)} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCommand(t, configPath, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "OK") || strings.Contains(out, "FAIL") {
		t.Fatalf("unexpected check output:\n%s", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "phono.toml")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, out.String())
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	// A second init without --overwrite refuses to clobber.
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{200 * time.Second, "3:20"},
		{59 * time.Second, "0:59"},
		{2*time.Hour + 5*time.Minute + 3*time.Second, "2:05:03"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
