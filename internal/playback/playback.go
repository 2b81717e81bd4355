// Package playback implements the Playback Engine thread: it owns a
// single audio.Source, resolves track IDs to file paths, and
// publishes every state transition onto the shared clock so the
// Updater and render pipeline never have to ask it directly.
package playback

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dewi-tim/musicplayer/internal/audio"
	"github.com/dewi-tim/musicplayer/internal/bus"
	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/track"
)

// Engine runs as the sole owner of one audio.Source. All mutation
// happens on the thread that calls Run; Clock is safe to read from
// elsewhere concurrently.
type Engine struct {
	backend audio.Source
	clock   *clock.Clock
	logger  *log.Logger

	paths map[track.ID]string
	durs  map[track.ID]time.Duration

	queued    track.ID
	hasQueued bool

	inbox chan bus.PlaybackMsg
	state chan bus.StateMsg
	now   func() time.Time
}

// New returns an Engine wired to out (the State Engine's inbox) and a
// shared clock, backed by the real audio.Backend.
func New(out chan bus.StateMsg, clk *clock.Clock, logger *log.Logger) *Engine {
	return NewWithSource(out, clk, logger, audio.NewBackend())
}

// NewWithSource returns an Engine backed by an arbitrary audio.Source,
// letting tests exercise the state machine against a fake. now
// defaults to time.Now; tests may override it.
func NewWithSource(out chan bus.StateMsg, clk *clock.Clock, logger *log.Logger, backend audio.Source) *Engine {
	return &Engine{
		backend: backend,
		clock:   clk,
		logger:  logger,
		paths:   make(map[track.ID]string),
		durs:    make(map[track.ID]time.Duration),
		inbox:   make(chan bus.PlaybackMsg, bus.PlaybackCap),
		state:   out,
		now:     time.Now,
	}
}

// Inbox returns the channel callers send PlaybackMsg values to.
func (e *Engine) Inbox() chan<- bus.PlaybackMsg { return e.inbox }

// Run processes messages until exit is closed. It is meant to be the
// body of the Playback thread's goroutine.
func (e *Engine) Run(exit <-chan struct{}) {
	for {
		select {
		case <-exit:
			e.backend.Close()
			return
		case msg := <-e.inbox:
			e.handle(msg)
		}
	}
}

func (e *Engine) handle(msg bus.PlaybackMsg) {
	switch {
	case msg.RegisterPath != nil:
		e.paths[msg.RegisterPath.ID] = msg.RegisterPath.Path
		e.durs[msg.RegisterPath.ID] = msg.RegisterPath.Duration
	case msg.Play != nil:
		e.start(msg.Play.ID, 0)
	case msg.Que != nil:
		e.queued = msg.Que.ID
		e.hasQueued = true
	case msg.Pause != nil:
		e.backend.Pause()
		e.clock.Pause(e.now())
	case msg.Resume != nil:
		e.backend.Play()
		e.clock.Resume(e.now(), e.clock.Snapshot().Elapsed(e.now()))
	case msg.Replay != nil:
		if err := e.backend.Seek(0); err != nil {
			e.logger.Error("seek to replay", "err", err)
		}
		e.clock.Resume(e.now(), 0)
	case msg.Next != nil:
		e.advance()
	case msg.Callback != nil:
		// The notifier's completion may race a user-driven track
		// change serviced after it fired; only advance if the track
		// that finished is still the one playing.
		if e.clock.Snapshot().PlayingTrack == msg.Callback.ID {
			e.advance()
		}
	case msg.Seek != nil:
		if err := e.backend.Seek(msg.Seek.At); err != nil {
			e.logger.Error("seek", "err", err)
			return
		}
		e.clock.Resume(e.now(), msg.Seek.At)
	case msg.Clear != nil:
		e.hasQueued = false
		e.backend.Unload()
		e.clock.Stop()
	}
}

// advance pops the queued next track and starts it, or stops playback
// outright when nothing is queued, then informs State so the playlist
// cursor moves with it.
func (e *Engine) advance() {
	if e.hasQueued {
		id := e.queued
		e.hasQueued = false
		e.start(id, 0)
	} else {
		e.backend.Unload()
		e.clock.Stop()
	}
	e.state <- bus.StateMsg{PlaybackNext: &struct{}{}}
}

// start loads id and begins playback from elapsed `at`, publishing a
// Loading transition immediately and a Playing transition (or an
// error) once decode completes. Loading a new track closes the
// previous load's done channel; that load's notifyOnCompletion
// goroutine then sees a different playing id, logs the cancellation
// and returns.
func (e *Engine) start(id track.ID, at time.Duration) {
	path, ok := e.paths[id]
	if !ok {
		e.logger.Error("playback requested for unregistered track", "id", id)
		e.state <- bus.StateMsg{PlaybackError: &bus.PlaybackErrorMsg{ID: id, Err: errUnregistered}}
		return
	}

	e.clock.SetLoading(id)

	done, err := e.backend.Load(path)
	if err != nil {
		e.logger.Error("load track", "id", id, "path", path, "err", err)
		e.state <- bus.StateMsg{PlaybackError: &bus.PlaybackErrorMsg{ID: id, Err: err}}
		return
	}

	duration := e.durs[id]
	now := e.now()
	e.clock.StartPlayback(now, id, at, duration)
	e.backend.Play()

	e.state <- bus.StateMsg{PlaybackLoaded: &bus.PlaybackLoadedMsg{ID: id, At: now}}

	go e.notifyOnCompletion(id, done)
}

// notifyOnCompletion blocks on this load's done channel. A later
// start() for a different track, or a Clear, replaces e.backend's
// internals and cancels this goroutine by closing the same channel
// ahead of any natural end-of-stream, so a close alone does not mean
// id actually finished playing. The two cases are told apart by
// comparing the shared clock's playing id (only ever advanced by a
// later start()) against the id this goroutine was spawned for: still
// equal means id really reached end of stream, and a Callback is
// posted onto the engine's own inbox so advance() — starting the
// queued next sound and informing State — runs on the Playback
// thread; anything else means this is the expected cancellation
// signal from a track change, which is logged and otherwise ignored.
func (e *Engine) notifyOnCompletion(id track.ID, done <-chan struct{}) {
	<-done
	if e.clock.Snapshot().PlayingTrack != id {
		e.logger.Info("completion notifier cancelled by track change", "id", id)
		return
	}
	e.inbox <- bus.PlaybackMsg{Callback: &bus.CallbackMsg{ID: id}}
}

var errUnregistered = playbackError("track has no registered path")

type playbackError string

func (e playbackError) Error() string { return string(e) }
