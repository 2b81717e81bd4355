package track

import "testing"

func TestLessOrdersByYearArtistAlbumDiscHeaderTrackNumber(t *testing.T) {
	a := Track{Year: 2020, AlbumArtist: "Ann", AlbumTitle: "A", TrackNumber: 2}
	b := Track{Year: 2021, AlbumArtist: "Ann", AlbumTitle: "A", TrackNumber: 1}
	if !Less(a, b) {
		t.Fatal("earlier year should sort first regardless of track number")
	}

	c := Track{Year: 2020, AlbumArtist: "Bea", AlbumTitle: "A", TrackNumber: 1}
	if !Less(a, c) {
		t.Fatal("same year: lower album-artist sort key should sort first")
	}

	d := Track{Year: 2020, AlbumArtist: "Ann", AlbumTitle: "A", TrackNumber: 1}
	if !Less(d, a) {
		t.Fatal("same album: lower track number should sort first")
	}
}

func TestLessIsCaseInsensitiveOnArtistAndAlbum(t *testing.T) {
	lower := Track{Year: 2020, AlbumArtist: "ann", AlbumTitle: "a", TrackNumber: 1}
	upper := Track{Year: 2020, AlbumArtist: "Ann", AlbumTitle: "A", TrackNumber: 1}
	if Less(lower, upper) || Less(upper, lower) {
		t.Fatal("artist/album comparison must be case-insensitive")
	}
}

func TestAlbumHeaderSortsBeforeFirstTrack(t *testing.T) {
	header := Track{Year: 2020, AlbumArtist: "Ann", AlbumTitle: "A", IsAlbumHeader: true}
	first := Track{Year: 2020, AlbumArtist: "Ann", AlbumTitle: "A", TrackNumber: 1}
	if !Less(header, first) {
		t.Fatal("album header must sort immediately before its first track")
	}
	if Less(first, header) {
		t.Fatal("a real track must never sort before its own album header")
	}
}

func TestEqualIsByID(t *testing.T) {
	a := Track{ID: 1, Title: "x"}
	b := Track{ID: 1, Title: "different title, same id"}
	c := Track{ID: 2, Title: "x"}
	if !a.Equal(b) {
		t.Fatal("tracks with the same ID must be equal regardless of other fields")
	}
	if a.Equal(c) {
		t.Fatal("tracks with different IDs must not be equal")
	}
}

func TestDisplayArtistFallsBackToAlbumArtist(t *testing.T) {
	t1 := Track{AlbumArtist: "Various Artists"}
	if t1.DisplayArtist() != "Various Artists" {
		t.Fatalf("DisplayArtist() = %q, want album artist fallback", t1.DisplayArtist())
	}
	t2 := Track{AlbumArtist: "Various Artists", TrackArtist: "Ann"}
	if t2.DisplayArtist() != "Ann" {
		t.Fatalf("DisplayArtist() = %q, want track artist override", t2.DisplayArtist())
	}
}

func TestHashPathIsCaseInsensitiveAndStable(t *testing.T) {
	a := HashPath("/Music/Song.mp3")
	b := HashPath("/music/song.mp3")
	if a != b {
		t.Fatal("HashPath must lowercase before hashing")
	}
	if a != HashPath("/Music/Song.mp3") {
		t.Fatal("HashPath must be stable for the same input")
	}
	if a == HashPath("/Music/Other.mp3") {
		t.Fatal("distinct paths should not collide in this small sample")
	}
}

func TestFilterEntrySortKeyStripsLeadingThe(t *testing.T) {
	f := FilterEntry{Kind: FilterArtist, DisplayName: "The Beatles"}
	if f.SortKey() != "beatles" {
		t.Fatalf("SortKey() = %q, want %q", f.SortKey(), "beatles")
	}
}

func TestFilterLessOrdersAllBeforeArtistsAndYears(t *testing.T) {
	all := FilterEntry{Kind: FilterAll}
	artist := FilterEntry{Kind: FilterArtist, DisplayName: "Ann"}
	year := FilterEntry{Kind: FilterYear, Year: 2020}
	if !FilterLess(all, artist) || !FilterLess(all, year) {
		t.Fatal("the All pseudo-entry must sort before artists and years")
	}
}

func TestFilterLessOrdersArtistsLexicallyAndYearsNumerically(t *testing.T) {
	a := FilterEntry{Kind: FilterArtist, DisplayName: "Ann"}
	b := FilterEntry{Kind: FilterArtist, DisplayName: "The Beatles"}
	if !FilterLess(a, b) {
		t.Fatal("artist filter entries should order by stripped-the sort key")
	}
	y1 := FilterEntry{Kind: FilterYear, Year: 1999}
	y2 := FilterEntry{Kind: FilterYear, Year: 2020}
	if !FilterLess(y1, y2) {
		t.Fatal("year filter entries should order numerically")
	}
}

func TestFilterEntryEqualByContent(t *testing.T) {
	a := FilterEntry{Kind: FilterYear, Year: 2020}
	b := FilterEntry{Kind: FilterYear, Year: 2020}
	c := FilterEntry{Kind: FilterYear, Year: 2021}
	if !a.Equal(b) {
		t.Fatal("year entries with the same year must be equal")
	}
	if a.Equal(c) {
		t.Fatal("year entries with different years must not be equal")
	}
}

func TestTitleStemStripsDirectoryAndExtension(t *testing.T) {
	cases := map[string]string{
		"/a/b/Song.mp3":         "Song",
		"Song.flac":             "Song",
		"/a/b/c":                "c",
		"C:\\music\\Track.wav":   "Track",
	}
	for in, want := range cases {
		if got := TitleStem(in); got != want {
			t.Errorf("TitleStem(%q) = %q, want %q", in, got, want)
		}
	}
}
