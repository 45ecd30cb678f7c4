// Package audio defines the recognized container formats and the duration
// recovery primitives built on full-stream decoding.
package audio

import (
	"path/filepath"
	"strings"
)

// Format is a recognized audio container format.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatM4B Format = "m4b"
)

// extensionFormats maps lower-cased file extensions to formats. m4a is
// treated as an alias of m4b.
var extensionFormats = map[string]Format{
	".mp3": FormatMP3,
	".m4b": FormatM4B,
	".m4a": FormatM4B,
}

// DetectFormat maps a path's extension to a Format. The second return value
// is false for unrecognized extensions; that is an expected outcome, not an
// error.
func DetectFormat(path string) (Format, bool) {
	format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// ParseFormat converts a serialized format name back to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mp3":
		return FormatMP3, true
	case "m4b":
		return FormatM4B, true
	default:
		return "", false
	}
}

// Extension returns the canonical file extension for the format, without
// the leading dot.
func (f Format) Extension() string {
	return string(f)
}

func (f Format) String() string {
	return string(f)
}

// FileRef is an absolute path paired with its detected format. Ownership of
// the underlying file is exclusive to whichever pipeline stage currently
// holds the ref; handoff happens via filesystem moves.
type FileRef struct {
	Path   string
	Format Format
}

// NewFileRef builds a FileRef for path, reporting false when the extension
// is unrecognized.
func NewFileRef(path string) (FileRef, bool) {
	format, ok := DetectFormat(path)
	if !ok {
		return FileRef{}, false
	}
	return FileRef{Path: path, Format: format}, true
}
