// Package playlist implements the ordered playback queue and its
// elapsed-time bookkeeping.
package playlist

import (
	"time"

	"github.com/dewi-tim/musicplayer/internal/track"
)

// ReplayThreshold is the elapsed-time cutoff for Previous: strictly
// greater replays the current track; at or below it, Previous steps
// the cursor back.
const ReplayThreshold = 5 * time.Second

// Playlist is the ordered sequence of tracks plus a cursor and the
// playing-clock bookkeeping needed to compute elapsed time without a
// ticking goroutine: elapsed = accumulated + (now-since if playing).
type Playlist struct {
	Tracks []track.Track
	Cursor int // -1 if empty

	playingSince time.Time // zero if paused/stopped
	accumulated  time.Duration
}

// New returns an empty playlist.
func New() *Playlist {
	return &Playlist{Cursor: -1}
}

// Current returns the track at the cursor and true, or zero value and
// false if the playlist is empty or past the end.
func (p *Playlist) Current() (track.Track, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Tracks) {
		return track.Track{}, false
	}
	return p.Tracks[p.Cursor], true
}

// Next returns the track after the cursor and true, or false if there
// isn't one.
func (p *Playlist) Next() (track.Track, bool) {
	i := p.Cursor + 1
	if i < 0 || i >= len(p.Tracks) {
		return track.Track{}, false
	}
	return p.Tracks[i], true
}

// Replace replaces the playlist wholesale and starts the cursor at
// startIndex, with playback considered to begin now.
func (p *Playlist) Replace(tracks []track.Track, startIndex int, now time.Time) {
	p.Tracks = tracks
	p.Cursor = startIndex
	p.playingSince = now
	p.accumulated = 0
}

// Enqueue appends tracks to the playlist without touching the clock.
// The cursor stays where it is, except that an empty playlist's cursor
// moves to the first appended track.
func (p *Playlist) Enqueue(tracks ...track.Track) {
	p.Tracks = append(p.Tracks, tracks...)
	if p.Cursor < 0 && len(p.Tracks) > 0 {
		p.Cursor = 0
	}
}

// Clear empties the playlist and stops the clock.
func (p *Playlist) Clear() {
	p.Tracks = nil
	p.Cursor = -1
	p.playingSince = time.Time{}
	p.accumulated = 0
}

// AdvanceToNext moves the cursor to the next track, if any, marking
// playback as starting fresh now. Returns false if there was no next
// track (the playlist is exhausted).
func (p *Playlist) AdvanceToNext(now time.Time) bool {
	if p.Cursor+1 >= len(p.Tracks) {
		p.Cursor = len(p.Tracks)
		p.playingSince = time.Time{}
		p.accumulated = 0
		return false
	}
	p.Cursor++
	p.playingSince = now
	p.accumulated = 0
	return true
}

// StepBack moves the cursor back one track (a no-op at the start),
// resetting elapsed to zero at the new current track.
func (p *Playlist) StepBack(now time.Time) {
	if p.Cursor <= 0 {
		p.playingSince = now
		p.accumulated = 0
		return
	}
	p.Cursor--
	p.playingSince = now
	p.accumulated = 0
}

// Elapsed returns played_accumulator + (now-playing_since if playing).
func (p *Playlist) Elapsed(now time.Time) time.Duration {
	if !p.playingSince.IsZero() {
		return p.accumulated + now.Sub(p.playingSince)
	}
	return p.accumulated
}

// Pause freezes the elapsed clock.
func (p *Playlist) Pause(now time.Time) {
	p.accumulated = p.Elapsed(now)
	p.playingSince = time.Time{}
}

// Resume restarts the playing segment at the given elapsed offset.
func (p *Playlist) Resume(now time.Time, at time.Duration) {
	p.accumulated = at
	p.playingSince = now
}

// Replay restarts the current track from zero.
func (p *Playlist) Replay(now time.Time) {
	p.Resume(now, 0)
}

// SkipTo computes the new elapsed offset after a skip of delta
// (positive forward, negative backward), saturated to [0, duration].
func SkipTo(elapsed, delta, duration time.Duration) time.Duration {
	n := elapsed + delta
	if n < 0 {
		n = 0
	}
	if duration > 0 && n > duration {
		n = duration
	}
	return n
}

// TrackStatus is the per-row playback indicator in the filter column.
type TrackStatus int

const (
	StatusNone TrackStatus = iota
	StatusPlayed
	StatusPlaying
	StatusQueued
)

// Status reports how the given track relates to this playlist's
// cursor: Playing if it is the current track, Queued if it appears
// later in the playlist, Played if it appears earlier, None
// otherwise.
func (p *Playlist) Status(id track.ID) TrackStatus {
	for i, t := range p.Tracks {
		if t.ID != id {
			continue
		}
		switch {
		case i == p.Cursor:
			return StatusPlaying
		case i > p.Cursor:
			return StatusQueued
		default:
			return StatusPlayed
		}
	}
	return StatusNone
}
