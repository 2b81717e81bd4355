package library

import (
	"testing"

	"github.com/dewi-tim/musicplayer/internal/track"
)

func mkTrack(year int, artist, album string, num int) track.Track {
	t := track.Track{
		Year:        year,
		HasYear:     true,
		AlbumArtist: artist,
		AlbumTitle:  album,
		Title:       "song",
		TrackNumber: num,
	}
	t.ID = track.HashPath(artist + "/" + album + "/" + string(rune('0'+num)))
	t.ArtistID = track.HashArtist(artist)
	t.AlbumID = track.HashAlbum(artist, album)
	return t
}

func TestTabSwitchRebuildsFilterAndTrackLists(t *testing.T) {
	s := New()
	s.NewTrack(mkTrack(2020, "Ann", "A", 1))
	s.NewTrack(mkTrack(2021, "Bea", "B", 1))

	if s.Tab != TabArtists {
		t.Fatalf("default tab = %v, want TabArtists", s.Tab)
	}

	s.SwitchTab(TabYear)
	if s.Tab != TabYear {
		t.Fatalf("tab after switch = %v, want TabYear", s.Tab)
	}

	entries, cursor := s.FilterWindow(10)
	// All + two years
	if len(entries) != 3 {
		t.Fatalf("filter entries after tab switch = %d, want 3", len(entries))
	}
	if cursor != 0 {
		t.Fatalf("cursor after tab switch = %d, want 0 (All)", cursor)
	}

	s.MoveFilterCursor(1)
	rows, _ := s.TrackWindow(10)
	// exactly one album header + one track for the selected year
	if len(rows) != 2 {
		t.Fatalf("track rows after year filter = %d, want 2", len(rows))
	}
}

func TestNewTrackInsertsHeaderOncePerAlbum(t *testing.T) {
	s := New()
	s.NewTrack(mkTrack(2020, "Ann", "A", 1))
	s.NewTrack(mkTrack(2020, "Ann", "A", 2))

	rows, _ := s.TrackWindow(10)
	headers := 0
	for _, r := range rows {
		if r.IsHeader {
			headers++
		}
	}
	if headers != 1 {
		t.Fatalf("album headers = %d, want 1", headers)
	}
	if len(rows) != 3 { // 1 header + 2 tracks
		t.Fatalf("rows = %d, want 3", len(rows))
	}
}

func TestBulkSelectionModes(t *testing.T) {
	s := New()
	a1 := mkTrack(2020, "Ann", "A", 1)
	a2 := mkTrack(2020, "Ann", "A", 2)
	b1 := mkTrack(2020, "Ann", "B", 1)
	s.NewTrack(a1)
	s.NewTrack(a2)
	s.NewTrack(b1)

	s.Column = ColumnTracks
	s.MoveTrackCursor(0) // cursor already snapped to first selectable on insert

	s.BulkSelect = BulkTrack
	sel := s.BulkSelection()
	if len(sel) != 1 {
		t.Fatalf("BulkTrack selection len = %d, want 1", len(sel))
	}

	s.BulkSelect = BulkAlbum
	sel = s.BulkSelection()
	if len(sel) != 2 {
		t.Fatalf("BulkAlbum selection len = %d, want 2", len(sel))
	}

	s.BulkSelect = BulkArtist
	sel = s.BulkSelection()
	if len(sel) != 3 {
		t.Fatalf("BulkArtist selection len = %d, want 3", len(sel))
	}
}
