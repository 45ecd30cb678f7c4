package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"phono/internal/audio"
	"phono/internal/tags"
)

// Defaults substituted for absent tag fields when building library paths.
const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
	unknownTitle  = "Unknown Title"
)

const sanitizeReplacement = "_"

// sanitizeTable maps filesystem-hostile characters to their replacement.
var sanitizer = strings.NewReplacer(
	"/", sanitizeReplacement,
	"\\", sanitizeReplacement,
	":", sanitizeReplacement,
	"*", sanitizeReplacement,
	"?", sanitizeReplacement,
	"\"", sanitizeReplacement,
	"<", sanitizeReplacement,
	">", sanitizeReplacement,
	"|", sanitizeReplacement,
)

// SanitizeName makes a tag value safe to use as a path segment.
func SanitizeName(name string) string {
	return strings.TrimSpace(sanitizer.Replace(name))
}

// LibraryPath plans the canonical library location for a file with the
// given metadata: musicRoot/artist/album/NN - Title.ext. Deterministic for
// identical metadata, which keeps re-imports idempotent.
func LibraryPath(musicRoot string, ref audio.FileRef, meta tags.Metadata) string {
	artist := meta.Artist
	if artist == "" {
		artist = meta.AlbumArtist
	}
	artist = SanitizeName(artist)
	if artist == "" {
		artist = unknownArtist
	}

	album := SanitizeName(meta.Album)
	if album == "" {
		album = unknownAlbum
	}

	title := SanitizeName(meta.Title)
	if title == "" {
		title = unknownTitle
	}

	name := title
	if meta.TrackNumber > 0 {
		name = fmt.Sprintf("%02d - %s", meta.TrackNumber, title)
	}
	return filepath.Join(musicRoot, artist, album, name+"."+ref.Format.Extension())
}

// ArchivePath mirrors the source's location under importRoot into
// archiveRoot. Sources outside importRoot keep their own path shape,
// joined beneath the archive root.
func ArchivePath(archiveRoot, importRoot, source string) string {
	return MirrorPath(archiveRoot, importRoot, source)
}

// ProblemPath mirrors the source's location under importRoot into
// problemRoot, for files whose duration could not be determined.
func ProblemPath(problemRoot, importRoot, source string) string {
	return MirrorPath(problemRoot, importRoot, source)
}

// MirrorPath relocates source's position under srcRoot beneath destRoot.
// The repair pool uses the same rule in reverse to promote problem files
// back into the import tree.
func MirrorPath(destRoot, srcRoot, source string) string {
	rel, err := filepath.Rel(srcRoot, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Join(destRoot, source)
	}
	return filepath.Join(destRoot, rel)
}
