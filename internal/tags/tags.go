// Package tags extracts embedded metadata from audio files and backfills
// computed durations into their tags.
//
// Extraction is read-only. The full-decode duration fallback marks its
// result as computed so the import orchestrator can run the explicit
// backfill step before the file is copied or archived; extraction itself
// never mutates the file.
package tags

import (
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	id3v2 "github.com/bogem/id3v2/v2"

	"phono/internal/audio"
	"phono/internal/errors"
	"phono/internal/logging"
)

// ID3 text frame IDs used beyond the library's named accessors.
const (
	frameAlbumArtist = "TPE2"
	frameTrack       = "TRCK"
	frameLength      = "TLEN"
)

// Chapter is a chapter marker inside a chapter-bearing container.
type Chapter struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// Metadata holds the tag fields the pipeline cares about. Empty strings and
// zero values mean "absent"; defaults like "Unknown Artist" are applied at
// presentation time, not here.
type Metadata struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	TrackNumber int
	Duration    time.Duration
	// DurationComputed reports that Duration came from the full-decode
	// fallback and is not yet recorded in the file's tag.
	DurationComputed bool
	Chapters         []Chapter
}

// Reader extracts metadata for recognized formats. The duration recovery
// functions are injectable for tests; production readers decode with the
// audio package.
type Reader struct {
	probe  audio.DurationFunc
	decode audio.DurationFunc
	logger *slog.Logger
}

// NewReader builds a Reader using the real decode-based duration recovery.
func NewReader(logger *slog.Logger) *Reader {
	return NewReaderWithDurations(logger, audio.ProbeDuration, audio.DecodeDuration)
}

// NewReaderWithDurations allows injecting duration recovery functions
// (used in tests).
func NewReaderWithDurations(logger *slog.Logger, probe, decode audio.DurationFunc) *Reader {
	return &Reader{
		probe:  probe,
		decode: decode,
		logger: logging.NewComponentLogger(logger, "tags"),
	}
}

// ReadFile detects the format of path and extracts its metadata.
func (r *Reader) ReadFile(path string) (audio.FileRef, Metadata, error) {
	ref, ok := audio.NewFileRef(path)
	if !ok {
		return audio.FileRef{}, Metadata{}, errors.UnknownFormat(path)
	}
	meta, err := r.Read(ref)
	if err != nil {
		return audio.FileRef{}, Metadata{}, err
	}
	return ref, meta, nil
}

// Read extracts metadata for the referenced file.
//
// M4B extraction is a stub returning empty metadata: chapter parsing for the
// second container is a known gap carried from the original design, not an
// oversight. Such files route to the problem tree via the missing-duration
// path and survive a future extractor unchanged.
func (r *Reader) Read(ref audio.FileRef) (Metadata, error) {
	switch ref.Format {
	case audio.FormatMP3:
		return r.readMP3(ref.Path)
	case audio.FormatM4B:
		return Metadata{}, nil
	default:
		return Metadata{}, errors.UnknownFormat(ref.Path)
	}
}

func (r *Reader) readMP3(path string) (Metadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return Metadata{}, errors.IO(path, err)
		}
		return Metadata{}, errors.TagParse(path, err)
	}
	defer tag.Close()

	meta := Metadata{
		Title:       strings.TrimSpace(tag.Title()),
		Artist:      strings.TrimSpace(tag.Artist()),
		AlbumArtist: strings.TrimSpace(tag.GetTextFrame(frameAlbumArtist).Text),
		Album:       strings.TrimSpace(tag.Album()),
		TrackNumber: parseTrackNumber(tag.GetTextFrame(frameTrack).Text),
	}

	meta.Duration, meta.DurationComputed = r.resolveDuration(path, tag)
	return meta, nil
}

// resolveDuration walks the ordered fallback chain: container probe, tag
// TLEN frame, full decode. A computed duration is flagged for backfill.
func (r *Reader) resolveDuration(path string, tag *id3v2.Tag) (time.Duration, bool) {
	if d, err := r.probe(path); err == nil && d > 0 {
		return d, false
	}

	if d, ok := tagDuration(tag); ok {
		return d, false
	}

	d, err := r.decode(path)
	if err != nil || d <= 0 {
		if err != nil {
			r.logger.Debug("full decode failed", logging.String("path", path), logging.Error(err))
		}
		return 0, false
	}
	r.logger.Info("recovered duration by full decode",
		logging.String("path", path),
		logging.Duration("duration", d))
	return d, true
}

// tagDuration reads the TLEN frame, which carries milliseconds.
func tagDuration(tag *id3v2.Tag) (time.Duration, bool) {
	text := strings.TrimSpace(tag.GetTextFrame(frameLength).Text)
	if text == "" {
		return 0, false
	}
	millis, err := strconv.ParseInt(text, 10, 64)
	if err != nil || millis <= 0 {
		return 0, false
	}
	return time.Duration(millis) * time.Millisecond, true
}

// parseTrackNumber handles both "3" and "3/12" forms. Zero means absent.
func parseTrackNumber(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if idx := strings.IndexByte(text, '/'); idx >= 0 {
		text = text[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// BackfillDuration writes duration into the file's tag as a TLEN frame so
// later extractions resolve it without decoding. The caller decides when
// mutation is acceptable; see the import orchestrator.
func BackfillDuration(path string, duration time.Duration) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return errors.IO(path, err)
		}
		return errors.TagParse(path, err)
	}
	defer tag.Close()

	millis := duration.Milliseconds()
	tag.AddTextFrame(frameLength, id3v2.EncodingUTF8, strconv.FormatInt(millis, 10))
	if err := tag.Save(); err != nil {
		return errors.IO(path, err)
	}
	return nil
}
