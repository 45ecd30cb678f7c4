package daemon_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"phono/internal/config"
	"phono/internal/daemon"
	"phono/internal/importer"
	"phono/internal/logging"
	"phono/internal/manifest"
	"phono/internal/repair"
	"phono/internal/scanner"
	"phono/internal/tags"
	"phono/internal/testsupport"
)

func failDuration(string) (time.Duration, error) {
	return 0, fmt.Errorf("not decodable")
}

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	reader := tags.NewReaderWithDurations(logging.NewNop(), failDuration, failDuration)
	scan := scanner.New(reader, logging.NewNop())
	imp := importer.New(cfg, reader, scan, logging.NewNop())
	pool := repair.NewPoolWithDecoder(cfg, scan,
		func(string) (time.Duration, error) { return time.Minute, nil }, logging.NewNop())
	store := manifest.NewStore(cfg.ManifestPath, logging.NewNop())

	d, err := daemon.New(cfg, imp, pool, store, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStartStopAndLockExclusivity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)

	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop()
	if !first.Running() {
		t.Fatal("daemon should report running")
	}

	second := newDaemon(t, cfg)
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to acquire the lock")
	}

	first.Stop()
	if first.Running() {
		t.Fatal("daemon should report stopped")
	}

	// The lock is free again.
	if err := second.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	second.Stop()
}

func TestRunImportPersistsCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ImportDir, "track.mp3"),
		testsupport.TagFixture{Title: "T", Artist: "A", Album: "B", LengthMS: 120_000})

	results, err := d.RunImport()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results: %+v", results)
	}

	store := manifest.NewStore(cfg.ManifestPath, logging.NewNop())
	loaded, _, err := store.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("persisted catalog len = %d", loaded.Len())
	}
}

func TestRunRepairPromotesAndImports(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	testsupport.WriteTaggedFile(t, filepath.Join(cfg.ProblemDir, "silent.mp3"),
		testsupport.TagFixture{Title: "S"})

	successes, failures, err := d.RunRepair(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(successes) != 1 || len(failures) != 0 {
		t.Fatalf("successes=%d failures=%d", len(successes), len(failures))
	}

	// The repaired file flowed straight through import into the catalog.
	store := manifest.NewStore(cfg.ManifestPath, logging.NewNop())
	loaded, _, err := store.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	song, ok := loaded.Song(1)
	if !ok || song.Duration != time.Minute {
		t.Fatalf("song = %+v ok=%v", song, ok)
	}
}
