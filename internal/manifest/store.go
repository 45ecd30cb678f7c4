// Package manifest persists the catalog as one JSON object per line.
//
// Saves go through a sibling temp file and an atomic rename, so the
// manifest on disk is always a complete previous or complete new version.
// Loads stream line by line and tolerate individual corrupt lines,
// reporting them as skips; entries with impossible durations abort the
// load outright because they mean the manifest can no longer be trusted.
package manifest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"phono/internal/catalog"
	"phono/internal/errors"
	"phono/internal/fileutil"
	"phono/internal/logging"
)

// Store reads and writes the manifest at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore builds a Store for the manifest at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "manifest"),
	}
}

// Path returns the manifest location.
func (s *Store) Path() string {
	return s.path
}

// Save serializes the catalog: one leading meta line, then every song and
// audiobook in ascending identifier order. The write is atomic.
func (s *Store) Save(c *catalog.Catalog) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	meta := metaLine{
		Type:            typeMeta,
		NextSongID:      c.NextSongID(),
		NextAudiobookID: c.NextAudiobookID(),
	}
	if err := enc.Encode(meta); err != nil {
		return errors.IO(s.path, err)
	}

	songs := c.Songs()
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	for _, song := range songs {
		if err := enc.Encode(songToLine(song)); err != nil {
			return errors.IO(s.path, err)
		}
	}

	books := c.Audiobooks()
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	for _, book := range books {
		if err := enc.Encode(audiobookToLine(book)); err != nil {
			return errors.IO(s.path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.IO(s.path, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return errors.IO(s.path, err)
	}
	s.logger.Info("manifest saved",
		logging.String("path", s.path),
		logging.Int("entries", c.Len()))
	return nil
}
