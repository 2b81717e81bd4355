// Package bus defines the typed, bounded channels that wire the
// seven worker threads together, and the message sum types each
// channel carries. A channel's depth is exactly how many messages its
// producer may get ahead of its consumer before blocking.
package bus

import (
	"time"

	"github.com/dewi-tim/musicplayer/internal/track"
)

// Channel capacities, named so callers never hardcode a magic number
// at the make() call site.
const (
	PlaybackCap = 16  // Playback Engine inbox
	StateCap    = 256 // State Engine inbox: input, scan results, playback events
	UpdateCap   = 1   // Updater -> State: coalesced, at most one pending tick
	DelayCap    = 1   // Render-Delay -> State: at most one pending debounce fire
	TUICap      = 1   // State -> TUI: at most one pending frame
)

// PlaybackMsg is the sum type the Playback Engine thread consumes.
type PlaybackMsg struct {
	RegisterPath *RegisterPathMsg
	Play         *PlayMsg
	Que          *QueMsg
	Pause        *struct{}
	Resume       *struct{}
	Replay       *struct{}
	Next         *struct{}
	Callback     *CallbackMsg
	Seek         *SeekMsg
	Clear        *struct{}
}

// CallbackMsg reports that the track a completion notifier was
// watching reached its natural end of stream. It is posted onto the
// Playback Engine's own inbox so the pop-and-start of the queued next
// track runs on the Playback thread.
type CallbackMsg struct {
	ID track.ID
}

// RegisterPathMsg tells the Playback Engine where a track's audio
// file lives and how long it runs, ahead of any Play/Que referencing
// its ID.
type RegisterPathMsg struct {
	ID       track.ID
	Path     string
	Duration time.Duration
}

// PlayMsg starts playback of id immediately, replacing whatever is
// currently loaded.
type PlayMsg struct {
	ID track.ID
}

// QueMsg sets id as the one track to play once the current track
// finishes; a later QueMsg replaces it.
type QueMsg struct {
	ID track.ID
}

// SeekMsg requests an absolute seek within the currently-playing
// track.
type SeekMsg struct {
	At time.Duration
}

// StateMsg is the sum type the State Engine thread consumes. Exactly
// one field is non-nil per message.
type StateMsg struct {
	InputLocal       *InputLocalMsg
	InputGlobal      *InputGlobalMsg
	PlaybackNext     *struct{}
	PlaybackLoaded   *PlaybackLoadedMsg
	PlaybackError    *PlaybackErrorMsg
	ScanAddSong      *ScanAddSongMsg
	ScanDone         *struct{}
	Render           *struct{}
	Resize           *ResizeMsg
}

// ResizeMsg reports the terminal's new size.
type ResizeMsg struct {
	Width, Height int
}

// InputLocalMsg carries a key/mouse intent scoped to the focused
// column of the library browser.
type InputLocalMsg struct {
	Intent   LocalIntent
	Received time.Time
}

// LocalIntent enumerates the column-scoped intents.
type LocalIntent int

const (
	LocalUp LocalIntent = iota
	LocalDown
	LocalPageUp
	LocalPageDown
	LocalHome
	LocalEnd
	LocalSwitchColumn
	LocalSwitchTab
	LocalSelect
	LocalSelectAlt
)

// InputGlobalMsg carries a playback-transport intent, independent of
// browser focus. SkipAmount is set only for GlobalSkipBackward/Forward.
type InputGlobalMsg struct {
	Intent     GlobalIntent
	Received   time.Time
	SkipAmount time.Duration
}

// GlobalIntent enumerates the transport-wide intents.
type GlobalIntent int

const (
	GlobalPlayPause GlobalIntent = iota
	GlobalPrevious
	GlobalNext
	GlobalStop
	GlobalSkipBackward
	GlobalSkipForward
	GlobalQuit
)

// PlaybackLoadedMsg reports that a Play/Next request finished loading
// and is now audible as of `at`.
type PlaybackLoadedMsg struct {
	ID track.ID
	At time.Time
}

// PlaybackErrorMsg reports that loading or decoding id failed.
type PlaybackErrorMsg struct {
	ID  track.ID
	Err error
}

// ScanAddSongMsg reports one newly-discovered, tag-parsed track.
type ScanAddSongMsg struct {
	Track track.Track
}

// TUIMsg is the sum type the TUI thread consumes: a single rendered
// frame, ready to hand to the terminal driver.
type TUIMsg struct {
	Frame []byte
}
