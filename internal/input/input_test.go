package input

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/musicplayer/internal/bus"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTranslateNavigationAndSelect(t *testing.T) {
	now := time.Now()

	sm, ok := Translate(keyMsg("up"), now)
	if !ok || sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalUp {
		t.Fatalf("up key did not produce LocalUp")
	}

	sm, ok = Translate(keyMsg("tab"), now)
	if !ok || sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalSwitchTab {
		t.Fatalf("tab key did not produce LocalSwitchTab")
	}

	sm, ok = Translate(keyMsg("enter"), now)
	if !ok || sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalSelect {
		t.Fatalf("enter key did not produce LocalSelect")
	}
}

func TestTranslateSkipBindingsCarrySignedAmount(t *testing.T) {
	now := time.Now()

	sm, ok := Translate(keyMsg("g"), now)
	if !ok || sm.InputGlobal == nil || sm.InputGlobal.Intent != bus.GlobalSkipForward {
		t.Fatalf("g did not produce GlobalSkipForward")
	}
	if sm.InputGlobal.SkipAmount != SkipSmall {
		t.Fatalf("g SkipAmount = %v, want %v", sm.InputGlobal.SkipAmount, SkipSmall)
	}

	sm, ok = Translate(keyMsg("F"), now)
	if !ok || sm.InputGlobal == nil || sm.InputGlobal.Intent != bus.GlobalSkipBackward {
		t.Fatalf("F did not produce GlobalSkipBackward")
	}
	if sm.InputGlobal.SkipAmount != -SkipLarge {
		t.Fatalf("F SkipAmount = %v, want %v", sm.InputGlobal.SkipAmount, -SkipLarge)
	}
}

func TestTranslateQuitFromEitherBinding(t *testing.T) {
	now := time.Now()
	for _, k := range []string{"q", "esc"} {
		sm, ok := Translate(keyMsg(k), now)
		if !ok || sm.InputGlobal == nil || sm.InputGlobal.Intent != bus.GlobalQuit {
			t.Fatalf("%q did not produce GlobalQuit", k)
		}
	}
}

func TestTranslateUnknownKeyIgnored(t *testing.T) {
	_, ok := Translate(keyMsg("z"), time.Now())
	if ok {
		t.Fatalf("unbound key z was translated")
	}
}

func TestEngineForwardsTranslatedKeyToState(t *testing.T) {
	toState := make(chan bus.StateMsg, 4)
	e := New(toState)

	e.handle(keyMsg("up"))

	select {
	case sm := <-toState:
		if sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalUp {
			t.Fatalf("expected LocalUp on the State channel, got %+v", sm)
		}
	default:
		t.Fatalf("expected a StateMsg to be forwarded")
	}
}

func TestEngineForwardsResize(t *testing.T) {
	toState := make(chan bus.StateMsg, 4)
	e := New(toState)

	e.handle(tea.WindowSizeMsg{Width: 80, Height: 24})

	select {
	case sm := <-toState:
		if sm.Resize == nil || sm.Resize.Width != 80 || sm.Resize.Height != 24 {
			t.Fatalf("expected a ResizeMsg, got %+v", sm)
		}
	default:
		t.Fatalf("expected a StateMsg to be forwarded")
	}
}

func TestEngineClosesQuitOnceOnQuitIntent(t *testing.T) {
	toState := make(chan bus.StateMsg, 4)
	e := New(toState)

	e.handle(keyMsg("q"))

	select {
	case <-e.Quit():
	default:
		t.Fatalf("expected Quit to be closed after a quit-bound key")
	}

	// A second quit-bound key must not panic on a double close.
	e.handle(keyMsg("esc"))
}

func TestEngineRunStopsOnExit(t *testing.T) {
	toState := make(chan bus.StateMsg, 4)
	e := New(toState)
	exit := make(chan struct{})

	done := make(chan struct{})
	go func() {
		e.Run(exit)
		close(done)
	}()

	e.Inbox() <- keyMsg("down")
	select {
	case sm := <-toState:
		if sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalDown {
			t.Fatalf("expected LocalDown, got %+v", sm)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run never processed the queued event")
	}

	close(exit)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after exit closed")
	}
}

func TestTranslateMouseWheel(t *testing.T) {
	now := time.Now()
	sm, ok := TranslateMouse(tea.MouseMsg{Button: tea.MouseButtonWheelUp}, now)
	if !ok || sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalUp {
		t.Fatalf("wheel up did not produce LocalUp")
	}
	sm, ok = TranslateMouse(tea.MouseMsg{Button: tea.MouseButtonWheelDown}, now)
	if !ok || sm.InputLocal == nil || sm.InputLocal.Intent != bus.LocalDown {
		t.Fatalf("wheel down did not produce LocalDown")
	}
	if _, ok := TranslateMouse(tea.MouseMsg{Button: tea.MouseButtonLeft}, now); ok {
		t.Fatalf("left click was translated")
	}
}
