// Package track defines the library's unit of content and the values
// derived from it for sorting and filtering.
package track

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"
)

// ID is a stable identifier for a track, derived from its lowercased
// absolute path. ArtistID and AlbumID are derived the same way from
// lowercased album-artist and artist+album respectively.
type ID uint64

// HashPath derives a stable ID from a lowercased absolute path.
func HashPath(path string) ID {
	return hashString(strings.ToLower(path))
}

// HashArtist derives a stable artist ID from a lowercased album-artist.
func HashArtist(albumArtist string) ID {
	return hashString(strings.ToLower(albumArtist))
}

// HashAlbum derives a stable album ID from lowercased artist+album.
func HashAlbum(artist, album string) ID {
	return hashString(strings.ToLower(artist) + "\x00" + strings.ToLower(album))
}

func hashString(s string) ID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return ID(h.Sum64())
}

// Track is the unit of library content. Tracks are value types: they
// are copied freely by the State thread and never mutated after the
// scanner creates them.
type Track struct {
	ID       ID
	ArtistID ID
	AlbumID  ID

	Path     string
	Duration time.Duration

	Year        int  // 0 if unknown
	HasYear     bool
	AlbumArtist string
	AlbumTitle  string
	DiscNumber  int
	HasDisc     bool

	// TrackArtist is populated only when it differs from AlbumArtist.
	TrackArtist string

	Title       string // required, falls back to the file-name stem
	TrackNumber int
	HasTrackNum bool

	// IsAlbumHeader marks a synthesized, non-selectable banner row
	// inserted before the first track of an album in the track column.
	IsAlbumHeader bool
}

// Equal compares tracks by ID, per the data-model's equality rule.
func (t Track) Equal(o Track) bool { return t.ID == o.ID }

// sortKey returns the lowercased form used for stable ordering of
// album-artist and album-title.
func sortKey(s string) string { return strings.ToLower(s) }

// Less implements the display ordering:
// (year, lowered album-artist, lowered album-title, disc, album-header-first, track-number).
func Less(a, b Track) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	aa, ba := sortKey(a.AlbumArtist), sortKey(b.AlbumArtist)
	if aa != ba {
		return aa < ba
	}
	at, bt := sortKey(a.AlbumTitle), sortKey(b.AlbumTitle)
	if at != bt {
		return at < bt
	}
	if a.DiscNumber != b.DiscNumber {
		return a.DiscNumber < b.DiscNumber
	}
	if a.IsAlbumHeader != b.IsAlbumHeader {
		// album header sorts immediately before its first track
		return a.IsAlbumHeader
	}
	return a.TrackNumber < b.TrackNumber
}

// DisplayArtist returns the artist to show for a track row: the
// track-artist when it differs from the album-artist, else the
// album-artist.
func (t Track) DisplayArtist() string {
	if t.TrackArtist != "" {
		return t.TrackArtist
	}
	return t.AlbumArtist
}

// FilterKind tags a FilterEntry's variant.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterArtist
	FilterYear
)

// FilterEntry is a tagged value used in the filter column: the All
// pseudo-entry, an artist, or a year.
type FilterEntry struct {
	Kind        FilterKind
	ArtistID    ID
	DisplayName string // for FilterArtist
	Year        int    // for FilterYear
}

// sortKeyStripThe lowercases a name and strips a leading "the " for
// sort-key purposes.
func sortKeyStripThe(name string) string {
	lower := strings.ToLower(name)
	return strings.TrimPrefix(lower, "the ")
}

// SortKey returns the key used to order this entry among its peers.
func (f FilterEntry) SortKey() string {
	switch f.Kind {
	case FilterArtist:
		return sortKeyStripThe(f.DisplayName)
	case FilterYear:
		return strconv.Itoa(f.Year)
	default:
		return ""
	}
}

// Equal compares FilterEntry values by content.
func (f FilterEntry) Equal(o FilterEntry) bool {
	if f.Kind != o.Kind {
		return false
	}
	switch f.Kind {
	case FilterArtist:
		return f.ArtistID == o.ArtistID
	case FilterYear:
		return f.Year == o.Year
	default:
		return true
	}
}

// FilterLess orders FilterEntry values: All first, then lexical on
// artist sort key, then numeric on year. Artists and years never mix
// within one tab's SortedList, but Less must still total-order the
// set that can appear together (All plus one kind).
func FilterLess(a, b FilterEntry) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch a.Kind {
	case FilterYear:
		return a.Year < b.Year
	case FilterArtist:
		return sortKeyStripThe(a.DisplayName) < sortKeyStripThe(b.DisplayName)
	default:
		return false
	}
}

// TitleStem derives a fallback track title from a file path when tags
// provide none: the file name without its extension.
func TitleStem(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '\\'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
