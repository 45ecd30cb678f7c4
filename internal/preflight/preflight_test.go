package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"phono/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckManifestWritable_OK(t *testing.T) {
	result := CheckManifestWritable(filepath.Join(t.TempDir(), "lib.jsonl"))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckManifestWritable_DirInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.jsonl")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	result := CheckManifestWritable(path)
	if result.Passed {
		t.Fatal("expected failure when a directory occupies the manifest path")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(cfg)
	if len(results) != 5 {
		t.Fatalf("results = %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	if err := os.RemoveAll(cfg.ProblemDir); err != nil {
		t.Fatal(err)
	}
	if AllPassed(RunAll(cfg)) {
		t.Fatal("expected failure after removing the problem directory")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil) != nil {
		t.Fatal("nil config should produce no results")
	}
}
