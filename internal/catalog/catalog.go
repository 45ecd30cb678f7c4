// Package catalog holds the in-memory library of songs and audiobooks.
//
// The catalog is owned exclusively by the running process. The import
// orchestrator adds entries and the manifest loader repopulates it at
// startup; nothing in the pipeline removes entries.
package catalog

import (
	"time"

	"phono/internal/audio"
	"phono/internal/errors"
)

// MaxDuration is the sanity ceiling on any entry's duration. Durations at
// or above this value in a loaded manifest indicate corrupted data.
const MaxDuration = 24 * time.Hour

// Chapter is a titled span inside an audiobook.
type Chapter struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// Song is a cataloged track. Title is always resolved (never empty);
// Artist, Album, and TrackNumber are zero-valued when the source tag
// omitted them.
type Song struct {
	ID          uint64
	File        audio.FileRef
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// Audiobook is a cataloged chapter-bearing entry.
type Audiobook struct {
	ID       uint64
	File     audio.FileRef
	Title    string
	Author   string
	Duration time.Duration
	Chapters []Chapter
}

// ValidateDuration enforces the entry duration invariant. Violations are
// fatal data corruption, not skippable noise.
func ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return errors.DataInvariantf("entry duration %v is not positive", d)
	}
	if d >= MaxDuration {
		return errors.DataInvariantf("entry duration %v exceeds the %v ceiling", d, MaxDuration)
	}
	return nil
}

// Catalog maps identifiers to entries, one namespace per kind.
type Catalog struct {
	songs      map[uint64]Song
	audiobooks map[uint64]Audiobook
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		songs:      make(map[uint64]Song),
		audiobooks: make(map[uint64]Audiobook),
	}
}

// AddSong inserts s, replacing any entry with the same identifier.
func (c *Catalog) AddSong(s Song) {
	c.songs[s.ID] = s
}

// AddAudiobook inserts b, replacing any entry with the same identifier.
func (c *Catalog) AddAudiobook(b Audiobook) {
	c.audiobooks[b.ID] = b
}

// Song returns the song with the given identifier.
func (c *Catalog) Song(id uint64) (Song, bool) {
	s, ok := c.songs[id]
	return s, ok
}

// Audiobook returns the audiobook with the given identifier.
func (c *Catalog) Audiobook(id uint64) (Audiobook, bool) {
	b, ok := c.audiobooks[id]
	return b, ok
}

// Len reports the total number of entries of both kinds.
func (c *Catalog) Len() int {
	return len(c.songs) + len(c.audiobooks)
}

// NextSongID is one greater than the maximum song identifier, or 1 for an
// empty catalog. Persisted counters are advisory; this recomputation is
// authoritative.
func (c *Catalog) NextSongID() uint64 {
	var max uint64
	for id := range c.songs {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// NextAudiobookID is one greater than the maximum audiobook identifier.
func (c *Catalog) NextAudiobookID() uint64 {
	var max uint64
	for id := range c.audiobooks {
		if id > max {
			max = id
		}
	}
	return max + 1
}
