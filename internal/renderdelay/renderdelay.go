// Package renderdelay implements the Render-Delay thread: a single
// debounce timer that, given the timestamp of the last render, sleeps
// until the next frame boundary and then requests a render.
package renderdelay

import (
	"time"

	"github.com/dewi-tim/musicplayer/internal/bus"
)

// MinFramePeriod floors the configured frame period at 100 fps
// (1/100s); no terminal benefits from a higher refresh rate.
const MinFramePeriod = 10 * time.Millisecond

// Debouncer receives the timestamp of the last render and, after the
// configured frame period has elapsed since then, requests another.
type Debouncer struct {
	period time.Duration
	inbox  chan time.Time
	state  chan<- bus.StateMsg
}

// New returns a Debouncer ticking at 1/framerate, floored at
// MinFramePeriod.
func New(framerate uint, state chan<- bus.StateMsg) *Debouncer {
	period := time.Second / time.Duration(framerate)
	if period < MinFramePeriod {
		period = MinFramePeriod
	}
	return &Debouncer{period: period, inbox: make(chan time.Time, bus.DelayCap), state: state}
}

// Inbox returns the channel State sends the last-render timestamp to.
func (d *Debouncer) Inbox() chan<- time.Time { return d.inbox }

// Run services debounce requests until exit is closed.
func (d *Debouncer) Run(exit <-chan struct{}) {
	for {
		select {
		case <-exit:
			return
		case last := <-d.inbox:
			d.wait(last, exit)
		}
	}
}

func (d *Debouncer) wait(last time.Time, exit <-chan struct{}) {
	wake := last.Add(d.period)
	delay := time.Until(wake)
	if delay < 0 {
		delay = 0
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-exit:
		return
	case <-timer.C:
		select {
		case d.state <- bus.StateMsg{Render: &struct{}{}}:
		case <-exit:
		}
	}
}
