package manifest

import (
	"time"

	"phono/internal/audio"
	"phono/internal/catalog"
	"phono/internal/errors"
)

// Line type discriminators for the on-disk tagged union.
const (
	typeMeta      = "meta"
	typeSong      = "song"
	typeAudiobook = "audiobook"
)

// metaLine is the advisory first line. Loaded counters are never trusted;
// identifiers are always recomputed from catalog maxima.
type metaLine struct {
	Type            string `json:"type"`
	NextSongID      uint64 `json:"next_song_id"`
	NextAudiobookID uint64 `json:"next_audiobook_id"`
}

type chapterLine struct {
	Title string  `json:"title"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// songLine is one cataloged track. Duration is serialized as seconds.
type songLine struct {
	Type        string  `json:"type"`
	ID          uint64  `json:"id"`
	Path        string  `json:"path"`
	Format      string  `json:"format"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist,omitempty"`
	Album       string  `json:"album,omitempty"`
	TrackNumber int     `json:"track_number,omitempty"`
	Duration    float64 `json:"duration"`
}

type audiobookLine struct {
	Type     string        `json:"type"`
	ID       uint64        `json:"id"`
	Path     string        `json:"path"`
	Format   string        `json:"format"`
	Title    string        `json:"title"`
	Author   string        `json:"author,omitempty"`
	Duration float64       `json:"duration"`
	Chapters []chapterLine `json:"chapters"`
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func duration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func songToLine(s catalog.Song) songLine {
	return songLine{
		Type:        typeSong,
		ID:          s.ID,
		Path:        s.File.Path,
		Format:      string(s.File.Format),
		Title:       s.Title,
		Artist:      s.Artist,
		Album:       s.Album,
		TrackNumber: s.TrackNumber,
		Duration:    seconds(s.Duration),
	}
}

func audiobookToLine(b catalog.Audiobook) audiobookLine {
	chapters := make([]chapterLine, 0, len(b.Chapters))
	for _, ch := range b.Chapters {
		chapters = append(chapters, chapterLine{
			Title: ch.Title,
			Start: seconds(ch.Start),
			End:   seconds(ch.End),
		})
	}
	return audiobookLine{
		Type:     typeAudiobook,
		ID:       b.ID,
		Path:     b.File.Path,
		Format:   string(b.File.Format),
		Title:    b.Title,
		Author:   b.Author,
		Duration: seconds(b.Duration),
		Chapters: chapters,
	}
}

func songFromLine(line songLine) (catalog.Song, error) {
	format, ok := audio.ParseFormat(line.Format)
	if !ok {
		return catalog.Song{}, errors.DataInvariantf("song %d has unknown format %q", line.ID, line.Format)
	}
	d := duration(line.Duration)
	if err := catalog.ValidateDuration(d); err != nil {
		return catalog.Song{}, err
	}
	return catalog.Song{
		ID:          line.ID,
		File:        audio.FileRef{Path: line.Path, Format: format},
		Title:       line.Title,
		Artist:      line.Artist,
		Album:       line.Album,
		TrackNumber: line.TrackNumber,
		Duration:    d,
	}, nil
}

func audiobookFromLine(line audiobookLine) (catalog.Audiobook, error) {
	format, ok := audio.ParseFormat(line.Format)
	if !ok {
		return catalog.Audiobook{}, errors.DataInvariantf("audiobook %d has unknown format %q", line.ID, line.Format)
	}
	d := duration(line.Duration)
	if err := catalog.ValidateDuration(d); err != nil {
		return catalog.Audiobook{}, err
	}
	chapters := make([]catalog.Chapter, 0, len(line.Chapters))
	for _, ch := range line.Chapters {
		chapters = append(chapters, catalog.Chapter{
			Title: ch.Title,
			Start: duration(ch.Start),
			End:   duration(ch.End),
		})
	}
	return catalog.Audiobook{
		ID:       line.ID,
		File:     audio.FileRef{Path: line.Path, Format: format},
		Title:    line.Title,
		Author:   line.Author,
		Duration: d,
		Chapters: chapters,
	}, nil
}
