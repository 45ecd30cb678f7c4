package scanner_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"phono/internal/logging"
	"phono/internal/scanner"
	"phono/internal/tags"
	"phono/internal/testsupport"
)

func newTestScanner() *scanner.Scanner {
	fail := func(string) (time.Duration, error) { return 0, fmt.Errorf("not decodable") }
	reader := tags.NewReaderWithDurations(logging.NewNop(), fail, fail)
	return scanner.New(reader, logging.NewNop())
}

func TestScanCollectsReadableFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTaggedFile(t, filepath.Join(root, "a.mp3"), testsupport.TagFixture{Title: "One"})
	testsupport.WriteTaggedFile(t, filepath.Join(root, "deep", "nested", "b.mp3"), testsupport.TagFixture{Title: "Two"})
	testsupport.WriteJunkFile(t, filepath.Join(root, "cover.jpg"))

	entries, err := newTestScanner().Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	titles := map[string]bool{}
	for _, e := range entries {
		titles[e.Meta.Title] = true
	}
	if !titles["One"] || !titles["Two"] {
		t.Fatalf("missing titles: %v", titles)
	}
}

func TestScanSkipsSilentlyWithHook(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTaggedFile(t, filepath.Join(root, "good.mp3"), testsupport.TagFixture{Title: "Good"})
	testsupport.WriteCorruptTagFile(t, filepath.Join(root, "broken.mp3"))
	testsupport.WriteJunkFile(t, filepath.Join(root, "notes.txt"))

	s := newTestScanner()
	var skipped []string
	s.OnSkip = func(path string, err error) {
		if err == nil {
			t.Errorf("skip hook for %s carried nil error", path)
		}
		skipped = append(skipped, filepath.Base(path))
	}

	entries, err := s.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Meta.Title != "Good" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want broken.mp3 and notes.txt", skipped)
	}
}

func TestScanMissingRootIsEmpty(t *testing.T) {
	entries, err := newTestScanner().Scan(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries from missing root", len(entries))
	}
}

func TestScanDeepTreeDoesNotRecurse(t *testing.T) {
	root := t.TempDir()
	dir := root
	for i := 0; i < 64; i++ {
		dir = filepath.Join(dir, "d")
	}
	testsupport.WriteTaggedFile(t, filepath.Join(dir, "leaf.mp3"), testsupport.TagFixture{Title: "Leaf"})

	entries, err := newTestScanner().Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Meta.Title != "Leaf" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
