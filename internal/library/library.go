// Package library implements the State thread's library model: the
// sorted track vector, the per-tab filter views, the track view, and
// the cursor/scroll/bulk-select session state.
package library

import (
	"github.com/dewi-tim/musicplayer/internal/sortedlist"
	"github.com/dewi-tim/musicplayer/internal/track"
)

// Tab selects which filter dimension is active.
type Tab int

const (
	TabArtists Tab = iota
	TabYear
)

// Column is the focused column within the library browser.
type Column int

const (
	ColumnFilter Column = iota
	ColumnTracks
)

// BulkSelectMode governs which tracks a Select/SelectAlt intent
// enqueues when the cursor is in the track column.
type BulkSelectMode int

const (
	BulkAll BulkSelectMode = iota
	BulkArtist
	BulkAlbum
	BulkTrack
)

func (m BulkSelectMode) Next() BulkSelectMode { return (m + 1) % 4 }
func (m BulkSelectMode) Prev() BulkSelectMode { return (m + 3) % 4 }

func (m BulkSelectMode) String() string {
	switch m {
	case BulkAll:
		return "All"
	case BulkArtist:
		return "Artist"
	case BulkAlbum:
		return "Album"
	default:
		return "Track"
	}
}

// Row is the tagged sum type rendered in the track column: either a
// synthesized, non-selectable album-header banner, or a track.
type Row struct {
	IsHeader bool
	Track    track.Track // valid when !IsHeader
	Header   HeaderInfo  // valid when IsHeader
}

// HeaderInfo carries the display fields for an album-header row.
type HeaderInfo struct {
	AlbumArtist string
	AlbumTitle  string
	Year        int
	AlbumID     track.ID
}

// Selectable reports whether this row may hold the cursor.
func (r Row) Selectable() bool { return !r.IsHeader }

func rowLess(a, b Row) bool {
	return track.Less(a.asTrack(), b.asTrack())
}

// asTrack returns a comparable track.Track stand-in for ordering
// purposes; header rows compare as a zero-number track tagged as a
// header so they sort immediately before their album's first track.
func (r Row) asTrack() track.Track {
	if !r.IsHeader {
		return r.Track
	}
	return track.Track{
		Year:          r.Header.Year,
		AlbumArtist:   r.Header.AlbumArtist,
		AlbumTitle:    r.Header.AlbumTitle,
		IsAlbumHeader: true,
	}
}

func rowSelectable(r Row) bool { return r.Selectable() }

// State is the full library model owned exclusively by the State
// thread: the sorted track vector, per-tab filter stores, the active
// filter SortedList, the track SortedList, and session settings.
type State struct {
	allTracks []track.Track // sorted by track.Less

	artistFilters *sortedlist.List[track.FilterEntry] // global store, kept for O(1) tab switch
	yearFilters   *sortedlist.List[track.FilterEntry]

	filterView *sortedlist.List[track.FilterEntry] // mirrors the active tab
	trackView  *sortedlist.List[Row]

	seenAlbums map[track.ID]bool // tracked against the active filter selection, for header placement

	Tab        Tab
	Column     Column
	BulkSelect BulkSelectMode
}

func filterEntryLess(a, b track.FilterEntry) bool        { return track.FilterLess(a, b) }
func filterEntryAlwaysSelectable(track.FilterEntry) bool { return true }

// New returns an empty library, defaulted to the Artists tab, filter
// column, bulk-select All.
func New() *State {
	s := &State{
		artistFilters: sortedlist.New(filterEntryLess, filterEntryAlwaysSelectable, true),
		yearFilters:   sortedlist.New(filterEntryLess, filterEntryAlwaysSelectable, true),
		seenAlbums:    make(map[track.ID]bool),
		Tab:           TabArtists,
		Column:        ColumnFilter,
		BulkSelect:    BulkAll,
	}
	s.filterView = sortedlist.New(filterEntryLess, filterEntryAlwaysSelectable, true)
	s.trackView = sortedlist.New(rowLess, rowSelectable, false)
	s.filterView.Add(track.FilterEntry{Kind: track.FilterAll})
	return s
}

// activeFilterStore returns the global per-tab filter store for s.Tab.
func (s *State) activeFilterStore() *sortedlist.List[track.FilterEntry] {
	if s.Tab == TabYear {
		return s.yearFilters
	}
	return s.artistFilters
}

func artistEntry(t track.Track) track.FilterEntry {
	return track.FilterEntry{Kind: track.FilterArtist, ArtistID: t.ArtistID, DisplayName: t.AlbumArtist}
}

func yearEntry(t track.Track) track.FilterEntry {
	e := track.FilterEntry{Kind: track.FilterYear}
	if t.HasYear {
		e.Year = t.Year
	}
	return e
}

// SelectedFilter returns the currently-selected filter entry, or the
// All entry if nothing is selected (an empty library).
func (s *State) SelectedFilter() track.FilterEntry {
	if e, ok := s.filterView.Cursor(); ok {
		return e
	}
	return track.FilterEntry{Kind: track.FilterAll}
}

func matchesFilter(t track.Track, f track.FilterEntry) bool {
	switch f.Kind {
	case track.FilterArtist:
		return t.ArtistID == f.ArtistID
	case track.FilterYear:
		return t.HasYear && t.Year == f.Year
	default:
		return true
	}
}

// NewTrack performs the incremental insert: insert into the sorted
// track vector; compute and insert this
// track's filter entry into both the artist and year global stores;
// mirror into the active filter view; and, if the track matches the
// currently-selected filter, append it (with a synthesized album
// header on first sight of its album) to the track view.
func (s *State) NewTrack(t track.Track) {
	idx := 0
	for idx < len(s.allTracks) && track.Less(s.allTracks[idx], t) {
		idx++
	}
	s.allTracks = append(s.allTracks, track.Track{})
	copy(s.allTracks[idx+1:], s.allTracks[idx:len(s.allTracks)-1])
	s.allTracks[idx] = t

	ae := artistEntry(t)
	ye := yearEntry(t)
	s.artistFilters.Add(ae)
	s.yearFilters.Add(ye)

	mirrored := ae
	if s.Tab == TabYear {
		mirrored = ye
	}
	s.filterView.Add(mirrored)

	sel := s.SelectedFilter()
	if sel.Kind == track.FilterAll || matchesFilter(t, sel) {
		s.insertIntoTrackView(t)
	}
}

func (s *State) insertIntoTrackView(t track.Track) {
	if !s.seenAlbums[t.AlbumID] {
		s.seenAlbums[t.AlbumID] = true
		s.trackView.Add(Row{
			IsHeader: true,
			Header: HeaderInfo{
				AlbumArtist: t.AlbumArtist,
				AlbumTitle:  t.AlbumTitle,
				Year:        t.Year,
				AlbumID:     t.AlbumID,
			},
		})
	}
	s.trackView.Add(Row{Track: t})
}

// SwitchTab performs a full filter-list and track-list refresh for
// the new tab.
func (s *State) SwitchTab(tab Tab) {
	s.Tab = tab
	store := s.activeFilterStore()
	s.filterView.ReplaceAll(append([]track.FilterEntry{{Kind: track.FilterAll}}, store.Entries()...))
	s.refreshTrackView()
}

// refreshTrackView rebuilds the track view as the intersection of all
// tracks with the currently-selected filter.
func (s *State) refreshTrackView() {
	sel := s.SelectedFilter()
	s.seenAlbums = make(map[track.ID]bool)

	var rows []Row
	for _, t := range s.allTracks {
		if sel.Kind == track.FilterAll || matchesFilter(t, sel) {
			if !s.seenAlbums[t.AlbumID] {
				s.seenAlbums[t.AlbumID] = true
				rows = append(rows, Row{IsHeader: true, Header: HeaderInfo{AlbumArtist: t.AlbumArtist, AlbumTitle: t.AlbumTitle, Year: t.Year, AlbumID: t.AlbumID}})
			}
			rows = append(rows, Row{Track: t})
		}
	}
	s.trackView.ReplaceAll(rows)
}

// MoveFilterCursor moves the filter column's cursor by delta
// selectable steps and refreshes the track view to match.
func (s *State) MoveFilterCursor(delta int) {
	if delta > 0 {
		s.filterView.SelectNext(delta)
	} else if delta < 0 {
		s.filterView.SelectPrev(-delta)
	}
	s.refreshTrackView()
}

// MoveTrackCursor moves the track column's cursor by delta selectable
// steps.
func (s *State) MoveTrackCursor(delta int) {
	if delta > 0 {
		s.trackView.SelectNext(delta)
	} else if delta < 0 {
		s.trackView.SelectPrev(-delta)
	}
}

// FilterWindow returns the visible filter window and cursor offset.
func (s *State) FilterWindow(height int) ([]track.FilterEntry, int) {
	return s.filterView.View(height)
}

// TrackWindow returns the visible track window and cursor offset.
func (s *State) TrackWindow(height int) ([]Row, int) {
	return s.trackView.View(height)
}

// CurrentTrackSelection returns the track currently under the track
// column's cursor, if any (never an album header).
func (s *State) CurrentTrackSelection() (track.Track, bool) {
	row, ok := s.trackView.Cursor()
	if !ok || row.IsHeader {
		return track.Track{}, false
	}
	return row.Track, true
}

// BulkSelection returns the set of tracks implied by the current
// bulk-select mode and the track under the cursor.
func (s *State) BulkSelection() []track.Track {
	cur, ok := s.CurrentTrackSelection()
	if !ok {
		return nil
	}
	switch s.BulkSelect {
	case BulkTrack:
		return []track.Track{cur}
	case BulkAlbum:
		return s.tracksWhere(func(t track.Track) bool { return t.AlbumID == cur.AlbumID })
	case BulkArtist:
		return s.tracksWhere(func(t track.Track) bool { return t.ArtistID == cur.ArtistID })
	default: // BulkAll: the whole filtered list currently visible in the track column
		return s.filteredTracks()
	}
}

func (s *State) tracksWhere(pred func(track.Track) bool) []track.Track {
	var out []track.Track
	for _, t := range s.allTracks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *State) filteredTracks() []track.Track {
	sel := s.SelectedFilter()
	return s.tracksWhere(func(t track.Track) bool {
		return sel.Kind == track.FilterAll || matchesFilter(t, sel)
	})
}
