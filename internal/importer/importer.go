// Package importer plans destinations for scanned audio files and moves
// them through the pipeline: import tree in, library plus archive out,
// problem tree for files whose duration cannot be determined.
package importer

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"phono/internal/audio"
	"phono/internal/catalog"
	"phono/internal/config"
	"phono/internal/errors"
	"phono/internal/fileutil"
	"phono/internal/logging"
	"phono/internal/scanner"
	"phono/internal/tags"
)

// Result is the per-file outcome of a batch import. Exactly one of Song
// and Err is set.
type Result struct {
	Source string
	Song   *catalog.Song
	Err    error
}

// Importer orchestrates single-file and batch imports. It is not safe for
// concurrent use against the same directory roots; callers serialize
// invocations.
type Importer struct {
	cfg     *config.Config
	reader  *tags.Reader
	scanner *scanner.Scanner
	logger  *slog.Logger
}

// New builds an Importer over the configured directory layout.
func New(cfg *config.Config, reader *tags.Reader, scan *scanner.Scanner, logger *slog.Logger) *Importer {
	return &Importer{
		cfg:     cfg,
		reader:  reader,
		scanner: scan,
		logger:  logging.NewComponentLogger(logger, "importer"),
	}
}

// ImportOne imports the file at source, minting a catalog entry with the
// given identifier.
//
// Extraction failures leave the source untouched. A missing duration is a
// terminal move: the file relocates to the problem tree and the error
// carries its new location. Otherwise the file is copied into the library
// and the original renamed into the archive, in that order, so an
// interruption between the two steps can duplicate a file but never lose
// one.
func (i *Importer) ImportOne(source string, id uint64) (catalog.Song, error) {
	ref, meta, err := i.reader.ReadFile(source)
	if err != nil {
		return catalog.Song{}, err
	}

	// A decode-recovered duration is written into the tag before the file
	// moves anywhere, so both the library copy and the archive original
	// carry it.
	if meta.DurationComputed {
		if err := tags.BackfillDuration(source, meta.Duration); err != nil {
			i.logger.Warn("duration backfill failed",
				logging.String("path", source),
				logging.Error(err))
		}
	}

	if meta.Duration <= 0 {
		problemPath := ProblemPath(i.cfg.ProblemDir, i.cfg.ImportDir, source)
		if err := os.MkdirAll(filepath.Dir(problemPath), 0o755); err != nil {
			return catalog.Song{}, errors.IO(problemPath, err)
		}
		if err := fileutil.MoveFile(source, problemPath); err != nil {
			return catalog.Song{}, errors.IO(source, err)
		}
		i.logger.Info("no duration; moved to problem tree",
			logging.String("source", source),
			logging.String("problem", problemPath))
		return catalog.Song{}, errors.NoDuration(problemPath)
	}

	libraryPath := LibraryPath(i.cfg.MusicDir, ref, meta)
	archivePath := ArchivePath(i.cfg.ImportedDir, i.cfg.ImportDir, source)

	if err := os.MkdirAll(filepath.Dir(libraryPath), 0o755); err != nil {
		return catalog.Song{}, errors.IO(libraryPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return catalog.Song{}, errors.IO(archivePath, err)
	}
	if err := fileutil.CopyFile(source, libraryPath); err != nil {
		return catalog.Song{}, errors.IO(libraryPath, err)
	}
	if err := fileutil.MoveFile(source, archivePath); err != nil {
		return catalog.Song{}, errors.IO(source, err)
	}

	// The catalog keeps tag values verbatim; sanitization is a path concern
	// only. The album artist stands in when no track artist is tagged, same
	// as the library path resolution.
	title := meta.Title
	if title == "" {
		title = unknownTitle
	}
	artist := meta.Artist
	if artist == "" {
		artist = meta.AlbumArtist
	}

	// Catalog entries reference the library copy, never the archive.
	song := catalog.Song{
		ID:          id,
		File:        audio.FileRef{Path: libraryPath, Format: ref.Format},
		Title:       title,
		Artist:      artist,
		Album:       meta.Album,
		TrackNumber: meta.TrackNumber,
		Duration:    meta.Duration,
	}
	i.logger.Info("imported",
		logging.Uint64("id", id),
		logging.String("library", libraryPath),
		logging.Duration("duration", meta.Duration))
	return song, nil
}

// ImportAllPending scans the import directory and imports every readable
// file in scan order, inserting successes into the catalog immediately so
// identifier assignment stays strictly increasing within the run. One
// file's failure never aborts the batch; the returned slice holds one
// result per discovered file.
func (i *Importer) ImportAllPending(c *catalog.Catalog) ([]Result, error) {
	if err := os.MkdirAll(i.cfg.ImportDir, 0o755); err != nil {
		return nil, errors.IO(i.cfg.ImportDir, err)
	}

	run := uuid.NewString()
	entries, err := i.scanner.Scan(i.cfg.ImportDir)
	if err != nil {
		return nil, err
	}
	i.logger.Info("import batch started",
		logging.String("run", run),
		logging.Int("candidates", len(entries)))

	nextID := c.NextSongID()
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		song, err := i.ImportOne(entry.Ref.Path, nextID)
		if err != nil {
			results = append(results, Result{Source: entry.Ref.Path, Err: err})
			continue
		}
		c.AddSong(song)
		nextID++
		results = append(results, Result{Source: entry.Ref.Path, Song: &song})
	}

	// Children before parents; failures to remove non-empty directories
	// are the expected common case and are ignored outright.
	fileutil.RemoveEmptyDirs(i.cfg.ImportDir)

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	i.logger.Info("import batch finished",
		logging.String("run", run),
		logging.Int("succeeded", succeeded),
		logging.Int("failed", len(results)-succeeded))
	return results, nil
}
