// Package clock implements the process-wide shared playback clock: a
// set of atomics giving every thread a lock-free, best-effort-
// consistent read of what is currently playing.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/dewi-tim/musicplayer/internal/track"
)

// State is the playback state code. Exactly one holds at any
// sampling point.
type State int32

const (
	Stopped State = 0
	Loading State = 1
	Paused  State = 2
	Playing State = 3
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Loading:
		return "loading"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Snapshot is a best-effort point-in-time read of the
// clock (each field below is read from its own atomic, so a Snapshot
// may be momentarily stale relative to its sibling fields, but never
// torn within a single field).
type Snapshot struct {
	State        State
	PlayingTrack track.ID
	LoadingTrack track.ID
	Since        time.Time // wall-clock instant the current segment began
	Accumulated  time.Duration
	Duration     time.Duration
	Scanning     bool
	BarWidth     int
}

// Elapsed returns the elapsed playback time implied by this snapshot
// at time now.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.State == Playing && !s.Since.IsZero() {
		return s.Accumulated + now.Sub(s.Since)
	}
	return s.Accumulated
}

// Clock is the atomics-backed aggregate. The Playback thread writes
// the playback fields, the scanner sets the scanning flag and State
// publishes the bar width (State does not write the playback fields);
// everyone reads via Snapshot.
type Clock struct {
	state        atomic.Int32
	playingTrack atomic.Uint64
	loadingTrack atomic.Uint64
	sinceUnixNs  atomic.Int64
	accumNs      atomic.Int64
	durationNs   atomic.Int64
	scanning     atomic.Bool
	barWidth     atomic.Int32
}

// New returns a Clock in the Stopped state.
func New() *Clock {
	c := &Clock{}
	c.state.Store(int32(Stopped))
	return c
}

// Snapshot reads every field with relaxed ordering (Go's atomic
// package provides sequential consistency per-field; no read ever
// returns a partially-written value because each field is a single
// atomic word).
func (c *Clock) Snapshot() Snapshot {
	var since time.Time
	if ns := c.sinceUnixNs.Load(); ns != 0 {
		since = time.Unix(0, ns)
	}
	return Snapshot{
		State:        State(c.state.Load()),
		PlayingTrack: track.ID(c.playingTrack.Load()),
		LoadingTrack: track.ID(c.loadingTrack.Load()),
		Since:        since,
		Accumulated:  time.Duration(c.accumNs.Load()),
		Duration:     time.Duration(c.durationNs.Load()),
		Scanning:     c.scanning.Load(),
		BarWidth:     int(c.barWidth.Load()),
	}
}

// StartPlayback marks a track as playing from elapsed `at` through a
// total of `duration`, with the segment considered to have begun `at`
// before now.
func (c *Clock) StartPlayback(now time.Time, id track.ID, at, duration time.Duration) {
	c.playingTrack.Store(uint64(id))
	c.durationNs.Store(int64(duration))
	c.accumNs.Store(0)
	c.sinceUnixNs.Store(now.Add(-at).UnixNano())
	c.state.Store(int32(Playing))
}

// Pause freezes the clock at its currently-elapsed time.
func (c *Clock) Pause(now time.Time) {
	snap := c.Snapshot()
	c.accumNs.Store(int64(snap.Elapsed(now)))
	c.sinceUnixNs.Store(0)
	c.state.Store(int32(Paused))
}

// Resume restarts the playing segment from accumulated elapsed `at`.
func (c *Clock) Resume(now time.Time, at time.Duration) {
	c.accumNs.Store(int64(at))
	c.sinceUnixNs.Store(now.UnixNano())
	c.state.Store(int32(Playing))
}

// Stop clears the clock to Stopped.
func (c *Clock) Stop() {
	c.playingTrack.Store(0)
	c.loadingTrack.Store(0)
	c.accumNs.Store(0)
	c.durationNs.Store(0)
	c.sinceUnixNs.Store(0)
	c.state.Store(int32(Stopped))
}

// SetLoading marks id as loading; the UI renders a spinner keyed off
// this without needing a render tick from Updater.
func (c *Clock) SetLoading(id track.ID) {
	c.loadingTrack.Store(uint64(id))
	c.state.Store(int32(Loading))
}

// SetScanning raises or lowers the scanner-in-progress flag.
func (c *Clock) SetScanning(v bool) { c.scanning.Store(v) }

// SetBarWidth publishes the progress bar's current cell width so the
// Updater can tick exactly once per bar-cell change.
func (c *Clock) SetBarWidth(w int) { c.barWidth.Store(int32(w)) }
