// Package scanner walks a directory tree and collects every audio file
// whose metadata extracts cleanly.
//
// Files that fail extraction are dropped from the result rather than
// reported. They stay where they are and the next scan retries them, so
// best-effort skipping never loses data. Callers needing visibility set
// an OnSkip hook.
package scanner

import (
	"log/slog"
	"os"
	"path/filepath"

	"phono/internal/audio"
	"phono/internal/errors"
	"phono/internal/logging"
	"phono/internal/tags"
)

// Entry is one successfully scanned file.
type Entry struct {
	Ref  audio.FileRef
	Meta tags.Metadata
}

// SkipFunc receives files dropped during a scan along with the reason.
type SkipFunc func(path string, err error)

// Scanner discovers readable audio files under a root directory.
type Scanner struct {
	reader *tags.Reader
	logger *slog.Logger

	// OnSkip, when non-nil, is invoked for every file the scan drops.
	OnSkip SkipFunc
}

// New builds a Scanner around the given metadata reader.
func New(reader *tags.Reader, logger *slog.Logger) *Scanner {
	return &Scanner{
		reader: reader,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan walks root and returns the extractable files in traversal order.
// The walk is iterative with an explicit directory stack, so arbitrarily
// deep trees cannot exhaust the call stack. A missing root yields an
// empty result.
func (s *Scanner) Scan(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IO(root, err)
	}
	if !info.IsDir() {
		return nil, errors.IO(root, errors.New("scan root is not a directory"))
	}

	var entries []Entry
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dirents, err := os.ReadDir(dir)
		if err != nil {
			s.skip(dir, errors.IO(dir, err))
			continue
		}
		for _, de := range dirents {
			path := filepath.Join(dir, de.Name())
			if de.IsDir() {
				stack = append(stack, path)
				continue
			}
			if !de.Type().IsRegular() {
				continue
			}
			ref, meta, err := s.reader.ReadFile(path)
			if err != nil {
				s.skip(path, err)
				continue
			}
			entries = append(entries, Entry{Ref: ref, Meta: meta})
		}
	}

	s.logger.Debug("scan complete",
		logging.String("root", root),
		logging.Int("files", len(entries)))
	return entries, nil
}

func (s *Scanner) skip(path string, err error) {
	if s.OnSkip != nil {
		s.OnSkip(path, err)
	}
	s.logger.Debug("skipping unreadable entry", logging.String("path", path), logging.Error(err))
}
