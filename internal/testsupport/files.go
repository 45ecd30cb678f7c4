package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	id3v2 "github.com/bogem/id3v2/v2"
)

// TagFixture describes the ID3 fields written onto a fixture file. Zero
// values are omitted from the tag.
type TagFixture struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Track       int
	// LengthMS populates the TLEN frame; fixtures rely on the tag fallback
	// because their audio payload is deliberately undecodable.
	LengthMS int64
}

// WriteTaggedFile creates a file at path whose payload is junk (so decode
// probing fails) but whose ID3 tag carries the fixture fields.
func WriteTaggedFile(t testing.TB, path string, fixture TagFixture) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not actually mpeg audio frames"), 0o644); err != nil {
		t.Fatalf("write fixture payload: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open fixture tag: %v", err)
	}
	defer tag.Close()

	if fixture.Title != "" {
		tag.SetTitle(fixture.Title)
	}
	if fixture.Artist != "" {
		tag.SetArtist(fixture.Artist)
	}
	if fixture.Album != "" {
		tag.SetAlbum(fixture.Album)
	}
	if fixture.AlbumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, fixture.AlbumArtist)
	}
	if fixture.Track > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(fixture.Track))
	}
	if fixture.LengthMS > 0 {
		tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, strconv.FormatInt(fixture.LengthMS, 10))
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save fixture tag: %v", err)
	}
}

// WriteCorruptTagFile creates a file with a mangled ID3 header so tag
// parsing fails outright (the size bytes are not synchsafe).
func WriteCorruptTagFile(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	corrupt := []byte{'I', 'D', '3', 4, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatalf("write corrupt fixture: %v", err)
	}
}

// WriteJunkFile creates a file that no extractor can read.
func WriteJunkFile(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir junk dir: %v", err)
	}
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("write junk file: %v", err)
	}
}
