package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"phono/internal/catalog"
	"phono/internal/errors"
)

// Skipped marks a manifest line that failed to parse. The load continued
// past it.
type Skipped struct {
	Line int
	Err  error
}

// Entry is one loaded manifest line: exactly one of the fields is set.
// Meta lines surface with all entry fields nil and Meta true.
type Entry struct {
	Song      *catalog.Song
	Audiobook *catalog.Audiobook
	Skipped   *Skipped
	Meta      bool
}

// Loader streams manifest entries one line at a time. It is single-pass
// and non-restartable; callers iterate with Next, read the current line
// from Entry, then check Err once iteration stops.
type Loader struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
	entry   Entry
	err     error
	done    bool
}

// Load opens the manifest for streaming. A missing file is a valid empty
// library: the returned loader yields no entries.
func (s *Store) Load() (*Loader, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Loader{done: true}, nil
		}
		return nil, errors.IO(s.path, err)
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Loader{file: file, scanner: scanner}, nil
}

// Next advances to the next manifest line. It returns false at end of
// input or on a fatal error; Err distinguishes the two.
func (l *Loader) Next() bool {
	if l.done || l.err != nil {
		return false
	}
	for l.scanner.Scan() {
		l.line++
		text := strings.TrimSpace(l.scanner.Text())
		if text == "" {
			continue
		}
		entry, fatal := l.parse([]byte(text))
		if fatal != nil {
			l.err = fatal
			return false
		}
		l.entry = entry
		return true
	}
	if err := l.scanner.Err(); err != nil {
		l.err = errors.IO(l.name(), err)
	}
	l.done = true
	return false
}

// Entry returns the line most recently produced by Next.
func (l *Loader) Entry() Entry {
	return l.entry
}

// Err reports the fatal error that stopped iteration, if any. Per-line
// corruption never lands here; it surfaces as Skipped entries.
func (l *Loader) Err() error {
	return l.err
}

// Close releases the underlying file. Safe to call on an exhausted loader.
func (l *Loader) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Loader) name() string {
	if l.file != nil {
		return l.file.Name()
	}
	return ""
}

// parse decodes one line. Unparsable lines degrade to a Skipped entry;
// impossible durations are fatal.
func (l *Loader) parse(raw []byte) (Entry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return l.skip(err), nil
	}

	switch probe.Type {
	case typeMeta:
		var line metaLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return l.skip(err), nil
		}
		return Entry{Meta: true}, nil

	case typeSong:
		var line songLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return l.skip(err), nil
		}
		song, err := songFromLine(line)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Song: &song}, nil

	case typeAudiobook:
		var line audiobookLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return l.skip(err), nil
		}
		book, err := audiobookFromLine(line)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Audiobook: &book}, nil

	default:
		return l.skip(fmt.Errorf("unknown entry type %q", probe.Type)), nil
	}
}

func (l *Loader) skip(err error) Entry {
	return Entry{Skipped: &Skipped{
		Line: l.line,
		Err:  errors.Wrapf(err, errors.CodeManifestCorruption, "line %d", l.line),
	}}
}

// LoadCatalog drains the manifest into a fresh catalog, collecting skip
// markers. Fatal errors abort with a partial catalog discarded.
func (s *Store) LoadCatalog() (*catalog.Catalog, []Skipped, error) {
	loader, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	defer loader.Close()

	c := catalog.New()
	var skipped []Skipped
	for loader.Next() {
		entry := loader.Entry()
		switch {
		case entry.Song != nil:
			c.AddSong(*entry.Song)
		case entry.Audiobook != nil:
			c.AddAudiobook(*entry.Audiobook)
		case entry.Skipped != nil:
			skipped = append(skipped, *entry.Skipped)
		}
	}
	if err := loader.Err(); err != nil {
		return nil, nil, err
	}
	return c, skipped, nil
}
