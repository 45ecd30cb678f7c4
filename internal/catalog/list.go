package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the primary ordering of a song listing.
type SortKey string

const (
	SortArtist SortKey = "artist"
	SortAlbum  SortKey = "album"
	SortTitle  SortKey = "title"
)

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortArtist, SortAlbum, SortTitle, "":
		if s == "" {
			return SortArtist, true
		}
		return SortKey(s), true
	default:
		return "", false
	}
}

// Songs returns every song in the default display order (by artist).
func (c *Catalog) Songs() []Song {
	return c.SongsBy(SortArtist)
}

// SongsBy returns every song ordered by the given key. String fields
// compare with a Unicode collator so accented names sort next to their
// unaccented forms. Remaining fields break ties: artist ordering falls
// through album and track number, album ordering through track number,
// title ordering through artist.
func (c *Catalog) SongsBy(key SortKey) []Song {
	songs := make([]Song, 0, len(c.songs))
	for _, s := range c.songs {
		songs = append(songs, s)
	}

	coll := collate.New(language.Und, collate.Loose)
	sort.Slice(songs, func(i, j int) bool {
		a, b := songs[i], songs[j]
		switch key {
		case SortAlbum:
			if cmp := coll.CompareString(a.Album, b.Album); cmp != 0 {
				return cmp < 0
			}
			if a.TrackNumber != b.TrackNumber {
				return a.TrackNumber < b.TrackNumber
			}
		case SortTitle:
			if cmp := coll.CompareString(a.Title, b.Title); cmp != 0 {
				return cmp < 0
			}
			if cmp := coll.CompareString(a.Artist, b.Artist); cmp != 0 {
				return cmp < 0
			}
		default:
			if cmp := coll.CompareString(a.Artist, b.Artist); cmp != 0 {
				return cmp < 0
			}
			if cmp := coll.CompareString(a.Album, b.Album); cmp != 0 {
				return cmp < 0
			}
			if a.TrackNumber != b.TrackNumber {
				return a.TrackNumber < b.TrackNumber
			}
			if cmp := coll.CompareString(a.Title, b.Title); cmp != 0 {
				return cmp < 0
			}
		}
		return a.ID < b.ID
	})
	return songs
}

// Audiobooks returns every audiobook ordered by author then title.
func (c *Catalog) Audiobooks() []Audiobook {
	books := make([]Audiobook, 0, len(c.audiobooks))
	for _, b := range c.audiobooks {
		books = append(books, b)
	}

	coll := collate.New(language.Und, collate.Loose)
	sort.Slice(books, func(i, j int) bool {
		a, b := books[i], books[j]
		if cmp := coll.CompareString(a.Author, b.Author); cmp != 0 {
			return cmp < 0
		}
		if cmp := coll.CompareString(a.Title, b.Title); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
	return books
}
