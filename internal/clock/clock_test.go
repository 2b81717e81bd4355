package clock

import (
	"testing"
	"time"

	"github.com/dewi-tim/musicplayer/internal/track"
)

func TestPauseResumePreservesElapsed(t *testing.T) {
	c := New()
	t0 := time.Now()
	c.StartPlayback(t0, track.ID(1), 0, 30*time.Second)

	t10 := t0.Add(10 * time.Second)
	if got := c.Snapshot().Elapsed(t10); got != 10*time.Second {
		t.Fatalf("elapsed before pause = %v, want 10s", got)
	}

	c.Pause(t10)
	snap := c.Snapshot()
	if snap.State != Paused {
		t.Fatalf("state = %v, want Paused", snap.State)
	}
	later := t10.Add(5 * time.Second)
	if got := c.Snapshot().Elapsed(later); got != 10*time.Second {
		t.Fatalf("elapsed while paused = %v, want frozen 10s", got)
	}

	t11 := t10.Add(1 * time.Second)
	c.Resume(t11, 10*time.Second)
	t16 := t11.Add(5 * time.Second)
	if got := c.Snapshot().Elapsed(t16); got != 15*time.Second {
		t.Fatalf("elapsed after resume = %v, want 15s", got)
	}
}

func TestExactlyOneStateAtATime(t *testing.T) {
	c := New()
	if c.Snapshot().State != Stopped {
		t.Fatalf("initial state must be Stopped")
	}
	c.SetLoading(track.ID(5))
	if c.Snapshot().State != Loading {
		t.Fatalf("state after SetLoading must be Loading")
	}
	c.StartPlayback(time.Now(), track.ID(5), 0, time.Minute)
	if c.Snapshot().State != Playing {
		t.Fatalf("state after StartPlayback must be Playing")
	}
	c.Stop()
	if c.Snapshot().State != Stopped {
		t.Fatalf("state after Stop must be Stopped")
	}
}
