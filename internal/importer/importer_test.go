package importer_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"phono/internal/catalog"
	"phono/internal/config"
	"phono/internal/errors"
	"phono/internal/importer"
	"phono/internal/logging"
	"phono/internal/scanner"
	"phono/internal/tags"
	"phono/internal/testsupport"
)

func failDuration(string) (time.Duration, error) {
	return 0, fmt.Errorf("not decodable")
}

func newImporter(t *testing.T) (*importer.Importer, *config.Config) {
	cfg := testsupport.NewConfig(t)
	reader := tags.NewReaderWithDurations(logging.NewNop(), failDuration, failDuration)
	scan := scanner.New(reader, logging.NewNop())
	return importer.New(cfg, reader, scan, logging.NewNop()), cfg
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return err == nil
}

func TestImportOneConcreteScenario(t *testing.T) {
	imp, cfg := newImporter(t)
	source := filepath.Join(cfg.ImportDir, "track.mp3")
	testsupport.WriteTaggedFile(t, source, testsupport.TagFixture{
		Title: "A", Artist: "B", Album: "C", Track: 3, LengthMS: 200_000,
	})

	song, err := imp.ImportOne(source, 1)
	if err != nil {
		t.Fatal(err)
	}

	wantLibrary := filepath.Join(cfg.MusicDir, "B", "C", "03 - A.mp3")
	if song.File.Path != wantLibrary {
		t.Fatalf("library path = %s, want %s", song.File.Path, wantLibrary)
	}
	if !exists(t, wantLibrary) {
		t.Fatal("library copy missing")
	}
	if !exists(t, filepath.Join(cfg.ImportedDir, "track.mp3")) {
		t.Fatal("archive copy missing")
	}
	if exists(t, source) {
		t.Fatal("source should have moved to the archive")
	}
	if song.Title != "A" || song.Artist != "B" || song.Album != "C" || song.TrackNumber != 3 {
		t.Fatalf("entry fields: %+v", song)
	}
	if song.Duration != 200*time.Second {
		t.Fatalf("duration = %v", song.Duration)
	}
}

func TestImportOneCatalogsRawTagValues(t *testing.T) {
	imp, cfg := newImporter(t)
	source := filepath.Join(cfg.ImportDir, "side.mp3")
	testsupport.WriteTaggedFile(t, source, testsupport.TagFixture{
		Title: "A/B side", AlbumArtist: "Band", Album: "C", LengthMS: 90_000,
	})

	song, err := imp.ImportOne(source, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Paths are sanitized, the catalog entry is not.
	wantLibrary := filepath.Join(cfg.MusicDir, "Band", "C", "A_B side.mp3")
	if song.File.Path != wantLibrary {
		t.Fatalf("library path = %s, want %s", song.File.Path, wantLibrary)
	}
	if song.Title != "A/B side" {
		t.Fatalf("title = %q, want raw tag value", song.Title)
	}
	if song.Artist != "Band" {
		t.Fatalf("artist = %q, want album-artist fallback", song.Artist)
	}
}

func TestImportOneNoDurationMovesToProblem(t *testing.T) {
	imp, cfg := newImporter(t)
	source := filepath.Join(cfg.ImportDir, "sub", "silent.mp3")
	testsupport.WriteTaggedFile(t, source, testsupport.TagFixture{Title: "Silent"})

	_, err := imp.ImportOne(source, 1)
	if !errors.Is(err, errors.ErrNoDuration) {
		t.Fatalf("err = %v, want NoDuration", err)
	}

	wantProblem := filepath.Join(cfg.ProblemDir, "sub", "silent.mp3")
	var domainErr *errors.Error
	if !errors.As(err, &domainErr) || domainErr.Path != wantProblem {
		t.Fatalf("error should carry the problem location, got %+v", err)
	}
	if !exists(t, wantProblem) {
		t.Fatal("file missing from problem tree")
	}
	if exists(t, source) {
		t.Fatal("source should have moved")
	}
}

func TestImportOneExtractionFailureLeavesSource(t *testing.T) {
	imp, cfg := newImporter(t)
	source := filepath.Join(cfg.ImportDir, "broken.mp3")
	testsupport.WriteCorruptTagFile(t, source)

	_, err := imp.ImportOne(source, 1)
	if !errors.Is(err, errors.ErrTagParse) {
		t.Fatalf("err = %v, want TagParse", err)
	}
	if !exists(t, source) {
		t.Fatal("failed extraction must leave the source untouched")
	}
}

func TestImportOneBackfillsComputedDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	decode := func(string) (time.Duration, error) { return 123 * time.Second, nil }
	reader := tags.NewReaderWithDurations(logging.NewNop(), failDuration, decode)
	scan := scanner.New(reader, logging.NewNop())
	imp := importer.New(cfg, reader, scan, logging.NewNop())

	source := filepath.Join(cfg.ImportDir, "untagged.mp3")
	testsupport.WriteTaggedFile(t, source, testsupport.TagFixture{Title: "X"})

	song, err := imp.ImportOne(source, 1)
	if err != nil {
		t.Fatal(err)
	}
	if song.Duration != 123*time.Second {
		t.Fatalf("duration = %v", song.Duration)
	}

	// The archived original carries the backfilled tag, so a later
	// extraction resolves the duration without decoding.
	verify := tags.NewReaderWithDurations(logging.NewNop(), failDuration, failDuration)
	_, meta, err := verify.ReadFile(filepath.Join(cfg.ImportedDir, "untagged.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if meta.Duration != 123*time.Second || meta.DurationComputed {
		t.Fatalf("backfill not persisted: %+v", meta)
	}
}

func TestImportAllPendingBatch(t *testing.T) {
	imp, cfg := newImporter(t)
	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, "one.mp3"),
		testsupport.TagFixture{Title: "One", Artist: "Same", Album: "Album", Track: 1, LengthMS: 60_000})
	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, "two.mp3"),
		testsupport.TagFixture{Title: "Two", Artist: "Same", Album: "Album", Track: 2, LengthMS: 61_000})
	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, "nodur.mp3"),
		testsupport.TagFixture{Title: "NoDur"})

	c := catalog.New()
	results, err := imp.ImportAllPending(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want one per discovered file", len(results))
	}

	var ok, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if !errors.Is(r.Err, errors.ErrNoDuration) {
				t.Fatalf("unexpected failure: %v", r.Err)
			}
			continue
		}
		ok++
	}
	if ok != 2 || failed != 1 {
		t.Fatalf("ok=%d failed=%d", ok, failed)
	}
	if c.Len() != 2 {
		t.Fatalf("catalog len = %d", c.Len())
	}
}

func TestImportAllPendingSequentialIDs(t *testing.T) {
	imp, cfg := newImporter(t)
	// Identical metadata on both files; identifiers must still be distinct
	// and sequential.
	for _, name := range []string{"a.mp3", "b.mp3"} {
		testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, name),
			testsupport.TagFixture{Title: "Same", Artist: "Same", Album: "Same", LengthMS: 30_000})
	}

	c := catalog.New()
	c.AddSong(catalog.Song{ID: 5, Title: "existing", Duration: time.Minute})

	results, err := imp.ImportAllPending(c)
	if err != nil {
		t.Fatal(err)
	}
	ids := map[uint64]bool{}
	for _, r := range results {
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		ids[r.Song.ID] = true
	}
	if !ids[6] || !ids[7] {
		t.Fatalf("ids = %v, want 6 and 7", ids)
	}
}

func TestImportAllPendingIdempotent(t *testing.T) {
	imp, cfg := newImporter(t)
	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, "deep", "track.mp3"),
		testsupport.TagFixture{Title: "T", Artist: "A", Album: "B", LengthMS: 45_000})

	c := catalog.New()
	first, err := imp.ImportAllPending(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || first[0].Err != nil {
		t.Fatalf("first run: %+v", first)
	}
	// The emptied subdirectory is cleaned up, the import root survives.
	if exists(t, filepath.Join(cfg.ImportDir, "deep")) {
		t.Fatal("empty subdirectory not removed")
	}
	if !exists(t, cfg.ImportDir) {
		t.Fatal("import root must survive cleanup")
	}

	second, err := imp.ImportAllPending(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 0 {
		t.Fatalf("second run imported %d files, want 0", len(second))
	}
	if c.Len() != 1 {
		t.Fatalf("catalog len = %d", c.Len())
	}
}
