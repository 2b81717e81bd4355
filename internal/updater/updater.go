// Package updater implements the Updater thread: three independent
// tickers (clock, progress, spinner), each gated by an atomic enable
// flag and backed by its own worker goroutine spawned the first time
// it is enabled.
package updater

import (
	"sync/atomic"
	"time"

	"github.com/dewi-tim/musicplayer/internal/bus"
	"github.com/dewi-tim/musicplayer/internal/clock"
)

// SpinnerIconCount is the number of precomputed loading-spinner
// glyphs; one full revolution takes spinnerRotation.
const SpinnerIconCount = 8

const spinnerRotation = 500 * time.Millisecond

// Updater owns the three tickers. SetClock, SetProgress and SetSpinner
// are safe to call from any thread; each starts its worker goroutine
// on a transition to enabled when none is running.
type Updater struct {
	clk   *clock.Clock
	state chan<- bus.StateMsg

	clockEnabled    atomic.Bool
	progressEnabled atomic.Bool
	spinnerEnabled  atomic.Bool

	clockStarted    atomic.Bool
	progressStarted atomic.Bool
	spinnerStarted  atomic.Bool
}

// New returns an Updater that will send a render request to state
// each time one of its tickers fires.
func New(clk *clock.Clock, state chan<- bus.StateMsg) *Updater {
	return &Updater{clk: clk, state: state}
}

// SetClock enables or disables the wall-clock display ticker.
func (u *Updater) SetClock(on bool) {
	u.clockEnabled.Store(on)
	if on && u.clockStarted.CompareAndSwap(false, true) {
		go u.runClock()
	}
}

// SetProgress enables or disables the progress-bar ticker.
func (u *Updater) SetProgress(on bool) {
	u.progressEnabled.Store(on)
	if on && u.progressStarted.CompareAndSwap(false, true) {
		go u.runProgress()
	}
}

// SetSpinner enables or disables the loading-spinner ticker.
func (u *Updater) SetSpinner(on bool) {
	u.spinnerEnabled.Store(on)
	if on && u.spinnerStarted.CompareAndSwap(false, true) {
		go u.runSpinner()
	}
}

func (u *Updater) tick() {
	select {
	case u.state <- bus.StateMsg{Render: &struct{}{}}:
	default:
		// a render is already queued; State will re-read the clock
		// when it services it, so this tick is redundant.
	}
}

// restart re-spawns a worker that exited between a disable and a
// re-enable: the exiting worker clears its started flag, and if the
// enable flag was flipped back on in the meantime, wins the CAS and
// spawns a replacement.
func (u *Updater) restart(started, enabled *atomic.Bool, run func()) {
	started.Store(false)
	if enabled.Load() && started.CompareAndSwap(false, true) {
		go run()
	}
}

func (u *Updater) runClock() {
	defer u.restart(&u.clockStarted, &u.clockEnabled, u.runClock)
	for u.clockEnabled.Load() {
		now := time.Now()
		next := now.Truncate(time.Second).Add(time.Second)
		time.Sleep(next.Sub(now))
		if !u.clockEnabled.Load() {
			return
		}
		u.tick()
	}
}

func (u *Updater) runProgress() {
	defer u.restart(&u.progressStarted, &u.progressEnabled, u.runProgress)
	for u.progressEnabled.Load() {
		snap := u.clk.Snapshot()
		barWidth := snap.BarWidth
		if barWidth <= 0 || snap.Duration <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		cell := snap.Duration / time.Duration(barWidth)
		elapsed := snap.Elapsed(time.Now())
		rem := cell - (elapsed % cell)
		time.Sleep(rem)
		if !u.progressEnabled.Load() {
			return
		}
		u.tick()
	}
}

func (u *Updater) runSpinner() {
	defer u.restart(&u.spinnerStarted, &u.spinnerEnabled, u.runSpinner)
	frame := spinnerRotation / SpinnerIconCount
	for u.spinnerEnabled.Load() {
		now := time.Now()
		rem := frame - (now.Sub(time.Unix(0, 0)) % frame)
		time.Sleep(rem)
		if !u.spinnerEnabled.Load() {
			return
		}
		u.tick()
	}
}

// Sync adjusts all three enable flags from a clock snapshot: clock
// and progress follow the Playing state; the spinner follows
// scanning-or-track-loading.
func (u *Updater) Sync(snap clock.Snapshot) {
	playing := snap.State == clock.Playing
	u.SetClock(playing)
	u.SetProgress(playing)
	u.SetSpinner(snap.Scanning || snap.State == clock.Loading)
}
