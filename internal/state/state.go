// Package state implements the State Engine thread: the single writer
// of the library, playlist, and interface state, and the render
// debounce policy that governs how often a frame is sent downstream.
package state

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dewi-tim/musicplayer/internal/bus"
	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/library"
	"github.com/dewi-tim/musicplayer/internal/playlist"
	"github.com/dewi-tim/musicplayer/internal/render"
	"github.com/dewi-tim/musicplayer/internal/track"
	"github.com/dewi-tim/musicplayer/internal/updater"
)

// renderDebounce is the minimum spacing between two frames sent
// without going through Render-Delay.
const renderDebounce = 10 * time.Millisecond

// pageStep is how many selectable rows PageUp/PageDown move the cursor.
const pageStep = 10

// Engine owns {library, playlist, interface} and drives the render
// debounce. It is meant to run as the body of the State thread's
// goroutine, fed by a single StateMsg inbox.
type Engine struct {
	lib *library.State
	pl  *playlist.Playlist
	clk *clock.Clock

	width, height int

	toPlayback chan<- bus.PlaybackMsg
	toDelay    chan<- time.Time
	toFrame    chan<- []byte
	upd        *updater.Updater
	pal        render.Palette
	logger     *log.Logger
	now        func() time.Time

	renderQueued bool
	renderLast   time.Time
}

// New returns an Engine wired to its downstream threads.
func New(
	clk *clock.Clock,
	toPlayback chan<- bus.PlaybackMsg,
	toDelay chan<- time.Time,
	toFrame chan<- []byte,
	upd *updater.Updater,
	pal render.Palette,
	logger *log.Logger,
) *Engine {
	return &Engine{
		lib:        library.New(),
		pl:         playlist.New(),
		clk:        clk,
		toPlayback: toPlayback,
		toDelay:    toDelay,
		toFrame:    toFrame,
		upd:        upd,
		pal:        pal,
		logger:     logger,
		now:        time.Now,
	}
}

// Run services msgs until exit is closed.
func (e *Engine) Run(inbox <-chan bus.StateMsg, exit <-chan struct{}) {
	for {
		select {
		case <-exit:
			return
		case msg := <-inbox:
			e.handle(msg)
			e.evaluateRender()
		}
	}
}

func (e *Engine) handle(msg bus.StateMsg) {
	switch {
	case msg.InputLocal != nil:
		e.handleLocal(msg.InputLocal.Intent)
	case msg.InputGlobal != nil:
		e.handleGlobal(msg.InputGlobal)
	case msg.PlaybackNext != nil:
		e.handlePlaybackNext()
	case msg.PlaybackLoaded != nil:
		e.upd.Sync(e.clk.Snapshot())
	case msg.PlaybackError != nil:
		e.logger.Error("playback failed", "id", msg.PlaybackError.ID, "err", msg.PlaybackError.Err)
		e.upd.Sync(e.clk.Snapshot())
	case msg.ScanAddSong != nil:
		e.lib.NewTrack(msg.ScanAddSong.Track)
		e.upd.Sync(e.clk.Snapshot())
	case msg.ScanDone != nil:
		e.upd.Sync(e.clk.Snapshot())
	case msg.Resize != nil:
		e.width, e.height = msg.Resize.Width, msg.Resize.Height
	case msg.Render != nil:
		e.renderQueued = false
	}
}

func (e *Engine) handleLocal(intent bus.LocalIntent) {
	switch intent {
	case bus.LocalUp:
		e.moveCursor(-1)
	case bus.LocalDown:
		e.moveCursor(1)
	case bus.LocalPageUp:
		e.moveCursor(-pageStep)
	case bus.LocalPageDown:
		e.moveCursor(pageStep)
	case bus.LocalHome:
		e.selectEdge(true)
	case bus.LocalEnd:
		e.selectEdge(false)
	case bus.LocalSwitchColumn:
		if e.lib.Column == library.ColumnFilter {
			e.lib.Column = library.ColumnTracks
		} else {
			e.lib.Column = library.ColumnFilter
		}
	case bus.LocalSwitchTab:
		if e.lib.Column == library.ColumnFilter {
			next := library.TabArtists
			if e.lib.Tab == library.TabArtists {
				next = library.TabYear
			}
			e.lib.SwitchTab(next)
		} else {
			e.lib.BulkSelect = e.lib.BulkSelect.Next()
		}
	case bus.LocalSelect:
		e.selectTracks(false)
	case bus.LocalSelectAlt:
		e.selectTracks(true)
	}
}

func (e *Engine) moveCursor(delta int) {
	if e.lib.Column == library.ColumnFilter {
		e.lib.MoveFilterCursor(delta)
	} else {
		e.lib.MoveTrackCursor(delta)
	}
}

func (e *Engine) selectEdge(start bool) {
	// Home/End apply to whichever column is focused; MoveFilterCursor
	// and MoveTrackCursor already clamp, so a large delta saturates.
	const sentinel = 1 << 20
	if start {
		e.moveCursor(-sentinel)
	} else {
		e.moveCursor(sentinel)
	}
}

// selectTracks implements Select/SelectAlt: Select replaces the
// playlist and plays from the selection; SelectAlt appends.
func (e *Engine) selectTracks(alt bool) {
	if e.lib.Column != library.ColumnTracks {
		return
	}
	tracks := e.lib.BulkSelection()
	if len(tracks) == 0 {
		return
	}

	now := e.now()
	if !alt {
		cur, ok := e.lib.CurrentTrackSelection()
		startIdx := 0
		if ok {
			startIdx = indexOf(tracks, cur.ID)
		}
		e.pl.Replace(tracks, startIdx, now)
		e.registerAndPlayCurrent()
	} else {
		e.pl.Enqueue(tracks...)
		if cur, ok := e.pl.Current(); ok && len(e.pl.Tracks) == len(tracks) {
			e.registerPath(cur)
			e.toPlayback <- bus.PlaybackMsg{Play: &bus.PlayMsg{ID: cur.ID}}
		}
	}
}

func indexOf(tracks []track.Track, id track.ID) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return 0
}

// registerAndPlayCurrent clears playback, plays the playlist's
// current track, and queues the one after it.
func (e *Engine) registerAndPlayCurrent() {
	e.toPlayback <- bus.PlaybackMsg{Clear: &struct{}{}}
	cur, ok := e.pl.Current()
	if !ok {
		return
	}
	e.registerPath(cur)
	e.toPlayback <- bus.PlaybackMsg{Play: &bus.PlayMsg{ID: cur.ID}}
	if next, ok := e.pl.Next(); ok {
		e.registerPath(next)
		e.toPlayback <- bus.PlaybackMsg{Que: &bus.QueMsg{ID: next.ID}}
	}
}

// registerPath is a no-op placeholder: in this architecture the
// scanner registers every path with Playback directly as it is
// discovered, well ahead of any Play/Que referencing it.
func (e *Engine) registerPath(track.Track) {}

func (e *Engine) handleGlobal(msg *bus.InputGlobalMsg) {
	now := e.now()
	switch msg.Intent {
	case bus.GlobalPlayPause:
		switch e.clk.Snapshot().State {
		case clock.Playing:
			e.toPlayback <- bus.PlaybackMsg{Pause: &struct{}{}}
			e.pl.Pause(now)
		case clock.Paused:
			e.toPlayback <- bus.PlaybackMsg{Resume: &struct{}{}}
			e.pl.Resume(now, e.pl.Elapsed(now))
		}
	case bus.GlobalPrevious:
		elapsed := e.pl.Elapsed(now)
		if elapsed > playlist.ReplayThreshold {
			e.toPlayback <- bus.PlaybackMsg{Replay: &struct{}{}}
			e.pl.Replay(now)
		} else {
			e.pl.StepBack(now)
			e.registerAndPlayCurrent()
		}
	case bus.GlobalNext:
		e.toPlayback <- bus.PlaybackMsg{Next: &struct{}{}}
	case bus.GlobalStop:
		e.pl.Clear()
		e.toPlayback <- bus.PlaybackMsg{Clear: &struct{}{}}
	case bus.GlobalSkipBackward, bus.GlobalSkipForward:
		if _, ok := e.pl.Current(); ok {
			delta := msg.SkipAmount
			if delta < 0 {
				delta = -delta
			}
			if msg.Intent == bus.GlobalSkipBackward {
				delta = -delta
			}
			at := playlist.SkipTo(e.pl.Elapsed(now), delta, e.currentDuration())
			e.toPlayback <- bus.PlaybackMsg{Seek: &bus.SeekMsg{At: at}}
			e.pl.Resume(now, at)
		}
	}
	e.upd.Sync(e.clk.Snapshot())
}

func (e *Engine) currentDuration() time.Duration {
	if t, ok := e.pl.Current(); ok {
		return t.Duration
	}
	return 0
}

// handlePlaybackNext advances the playlist cursor and, if there is a
// track after the new current one, queues it. The Playback thread has
// already popped and started the queued sound (or stopped the clock on
// exhaustion) by the time this arrives, so the tickers are re-synced
// either way.
func (e *Engine) handlePlaybackNext() {
	now := e.now()
	if e.pl.AdvanceToNext(now) {
		if next, ok := e.pl.Next(); ok {
			e.registerPath(next)
			e.toPlayback <- bus.PlaybackMsg{Que: &bus.QueMsg{ID: next.ID}}
		}
	}
	e.upd.Sync(e.clk.Snapshot())
}

// evaluateRender applies the three-way debounce rule: send immediately
// if the last frame is old enough, queue a single catch-up frame with
// Render-Delay if not, and do nothing if one is already queued.
func (e *Engine) evaluateRender() {
	now := e.now()
	switch {
	case now.Sub(e.renderLast) >= renderDebounce && !e.renderQueued:
		e.sendFrame(now)
	case !e.renderQueued:
		e.renderQueued = true
		select {
		case e.toDelay <- e.renderLast:
		default:
		}
	}
}

func (e *Engine) sendFrame(now time.Time) {
	bodyHeight := e.height - 2
	if bodyHeight < 0 {
		bodyHeight = 0
	}
	filterEntries, filterCursor := e.lib.FilterWindow(bodyHeight)
	rows, rowCursor := e.lib.TrackWindow(bodyHeight)

	e.clk.SetBarWidth(render.BarWidth(e.width))

	v := render.View{
		FilterEntries: filterEntries,
		FilterCursor:  filterCursor,
		Rows:          rows,
		RowCursor:     rowCursor,
		Tab:           e.lib.Tab,
		Column:        e.lib.Column,
		BulkSelect:    e.lib.BulkSelect,
	}
	frame := render.Frame(e.width, e.height, e.pal, e.clk.Snapshot(), e.pl, v, now)
	select {
	case e.toFrame <- frame:
		e.renderLast = now
	default:
		// TUI hasn't consumed the previous frame yet; try again once
		// it does, via the next debounced render request.
		e.renderQueued = true
		select {
		case e.toDelay <- e.renderLast:
		default:
		}
	}
}
