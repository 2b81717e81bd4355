// Package tagreader is the thin wrapper around the audio tag reader
// external collaborator: parse(path) -> TrackMetadata. It also turns
// TrackMetadata into a library track.Track, since track-id derivation
// depends on the raw tag fields.
package tagreader

import (
	"fmt"
	"os"
	"time"

	"github.com/dhowden/tag"

	"github.com/dewi-tim/musicplayer/internal/track"
)

// Metadata is the normalized set of fields the scanner needs from a
// tagged audio file.
type Metadata struct {
	Year        int
	HasYear     bool
	AlbumArtist string
	AlbumTitle  string
	Disc        int
	HasDisc     bool
	TrackArtist string
	Title       string
	TrackNumber int
	HasTrackNum bool
}

// Parse reads tags from the file at path.
func Parse(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("while opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("while reading tags from %s: %w", path, err)
	}

	meta := Metadata{
		AlbumArtist: firstNonEmpty(m.AlbumArtist(), m.Artist()),
		AlbumTitle:  m.Album(),
		Title:       m.Title(),
	}

	if artist := m.Artist(); artist != "" && artist != meta.AlbumArtist {
		meta.TrackArtist = artist
	}

	if y := m.Year(); y != 0 {
		meta.Year = y
		meta.HasYear = true
	}

	if disc, _ := m.Disc(); disc != 0 {
		meta.Disc = disc
		meta.HasDisc = true
	}

	if num, _ := m.Track(); num != 0 {
		meta.TrackNumber = num
		meta.HasTrackNum = true
	}

	return meta, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ToTrack builds a library track.Track from parsed metadata and the
// file's path and duration.
func ToTrack(path string, duration time.Duration, meta Metadata) track.Track {
	title := meta.Title
	if title == "" {
		title = track.TitleStem(path)
	}

	t := track.Track{
		ID:          track.HashPath(path),
		Path:        path,
		Duration:    duration,
		Year:        meta.Year,
		HasYear:     meta.HasYear,
		AlbumArtist: meta.AlbumArtist,
		AlbumTitle:  meta.AlbumTitle,
		DiscNumber:  meta.Disc,
		HasDisc:     meta.HasDisc,
		TrackArtist: meta.TrackArtist,
		Title:       title,
		TrackNumber: meta.TrackNumber,
		HasTrackNum: meta.HasTrackNum,
	}
	t.ArtistID = track.HashArtist(meta.AlbumArtist)
	t.AlbumID = track.HashAlbum(meta.AlbumArtist, meta.AlbumTitle)
	return t
}
