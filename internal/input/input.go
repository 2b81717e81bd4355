// Package input implements the Input thread: it receives raw terminal
// driver events (key presses, mouse wheel, resizes) forwarded by the
// TUI thread, translates them into timestamped local and global
// intents — wasd/hjkl/arrows for navigation, Tab/Shift-Tab to cycle
// tab or bulk-select mode, Enter/e/Space to select, and a fixed set of
// global transport bindings — and forwards the result to the State
// thread. A Quit intent additionally closes the Engine's Quit channel,
// which the TUI thread listens on to stop the bubbletea program.
package input

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/musicplayer/internal/bus"
)

// SkipSmall and SkipLarge are the two skip magnitudes the lowercase
// and uppercase skip bindings command.
const (
	SkipSmall = 10 * time.Second
	SkipLarge = 60 * time.Second
)

// inboxCap bounds how many raw terminal events the TUI thread may get
// ahead of translation before a send is simply dropped (the next event
// supersedes it; nothing here is cumulative).
const inboxCap = 64

// Engine is the Input thread: it owns the raw-event inbox the TUI
// thread feeds and the State thread outbox it translates onto.
type Engine struct {
	inbox   chan tea.Msg
	toState chan<- bus.StateMsg
	quit    chan struct{}
	once    sync.Once
	now     func() time.Time
}

// New returns an Engine that forwards translated intents to toState.
func New(toState chan<- bus.StateMsg) *Engine {
	return &Engine{
		inbox:   make(chan tea.Msg, inboxCap),
		toState: toState,
		quit:    make(chan struct{}),
		now:     time.Now,
	}
}

// Inbox is where the TUI thread forwards every raw tea.Msg it
// receives for translation.
func (e *Engine) Inbox() chan<- tea.Msg { return e.inbox }

// Quit is closed exactly once, the moment a quit-bound key is
// translated, so the TUI thread can stop the bubbletea program.
func (e *Engine) Quit() <-chan struct{} { return e.quit }

// Run services raw events until exit is closed. It is meant to be the
// body of the Input thread's goroutine.
func (e *Engine) Run(exit <-chan struct{}) {
	for {
		select {
		case <-exit:
			return
		case msg := <-e.inbox:
			e.handle(msg)
		}
	}
}

func (e *Engine) handle(msg tea.Msg) {
	now := e.now()
	switch m := msg.(type) {
	case tea.KeyMsg:
		if sm, ok := Translate(m, now); ok {
			e.dispatch(sm)
		}
	case tea.MouseMsg:
		if sm, ok := TranslateMouse(m, now); ok {
			e.dispatch(sm)
		}
	case tea.WindowSizeMsg:
		e.send(bus.StateMsg{Resize: &bus.ResizeMsg{Width: m.Width, Height: m.Height}})
	}
}

func (e *Engine) dispatch(sm bus.StateMsg) {
	e.send(sm)
	if sm.InputGlobal != nil && sm.InputGlobal.Intent == bus.GlobalQuit {
		e.once.Do(func() { close(e.quit) })
	}
}

func (e *Engine) send(sm bus.StateMsg) {
	select {
	case e.toState <- sm:
	default:
	}
}

// keyMap is the full binding table: wasd/hjkl/arrows for navigation,
// Tab/Shift-Tab to cycle, Enter/e/Space to select, and the transport
// keys. Uppercase skip bindings command the large skip amount.
type keyMap struct {
	Up, Down, Left, Right       key.Binding
	PageUp, PageDown, Home, End key.Binding
	SwitchTab                   key.Binding
	Select, SelectAlt           key.Binding
	PlayPause, Previous         key.Binding
	Next, Stop                  key.Binding
	SkipFwd, SkipFwdBig         key.Binding
	SkipBack, SkipBackBig       key.Binding
	Quit                        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k", "w")),
	Down:        key.NewBinding(key.WithKeys("down", "j", "s")),
	Left:        key.NewBinding(key.WithKeys("left", "h", "a")),
	Right:       key.NewBinding(key.WithKeys("right", "l", "d")),
	PageUp:      key.NewBinding(key.WithKeys("pgup")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown")),
	Home:        key.NewBinding(key.WithKeys("home")),
	End:         key.NewBinding(key.WithKeys("end")),
	SwitchTab:   key.NewBinding(key.WithKeys("tab", "shift+tab")),
	Select:      key.NewBinding(key.WithKeys("enter", "e")),
	SelectAlt:   key.NewBinding(key.WithKeys(" ")),
	PlayPause:   key.NewBinding(key.WithKeys("c", "u")),
	Previous:    key.NewBinding(key.WithKeys("x", "y")),
	Next:        key.NewBinding(key.WithKeys("b", "o")),
	Stop:        key.NewBinding(key.WithKeys("v", "i")),
	SkipFwd:     key.NewBinding(key.WithKeys("g", "m")),
	SkipFwdBig:  key.NewBinding(key.WithKeys("G", "M")),
	SkipBack:    key.NewBinding(key.WithKeys("f", "n")),
	SkipBackBig: key.NewBinding(key.WithKeys("F", "N")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc")),
}

// Translate maps one bubbletea key message to at most one bus
// message. now is the event timestamp recorded on the intent.
func Translate(msg tea.KeyMsg, now time.Time) (bus.StateMsg, bool) {
	switch {
	case key.Matches(msg, keys.Up):
		return local(bus.LocalUp, now), true
	case key.Matches(msg, keys.Down):
		return local(bus.LocalDown, now), true
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		return local(bus.LocalSwitchColumn, now), true
	case key.Matches(msg, keys.PageUp):
		return local(bus.LocalPageUp, now), true
	case key.Matches(msg, keys.PageDown):
		return local(bus.LocalPageDown, now), true
	case key.Matches(msg, keys.Home):
		return local(bus.LocalHome, now), true
	case key.Matches(msg, keys.End):
		return local(bus.LocalEnd, now), true
	case key.Matches(msg, keys.SwitchTab):
		return local(bus.LocalSwitchTab, now), true
	case key.Matches(msg, keys.Select):
		return local(bus.LocalSelect, now), true
	case key.Matches(msg, keys.SelectAlt):
		return local(bus.LocalSelectAlt, now), true

	case key.Matches(msg, keys.PlayPause):
		return global(bus.GlobalPlayPause, now), true
	case key.Matches(msg, keys.Previous):
		return global(bus.GlobalPrevious, now), true
	case key.Matches(msg, keys.Next):
		return global(bus.GlobalNext, now), true
	case key.Matches(msg, keys.Stop):
		return global(bus.GlobalStop, now), true
	case key.Matches(msg, keys.SkipFwd):
		return globalSkip(now, SkipSmall), true
	case key.Matches(msg, keys.SkipFwdBig):
		return globalSkip(now, SkipLarge), true
	case key.Matches(msg, keys.SkipBack):
		return globalSkip(now, -SkipSmall), true
	case key.Matches(msg, keys.SkipBackBig):
		return globalSkip(now, -SkipLarge), true
	case key.Matches(msg, keys.Quit):
		return global(bus.GlobalQuit, now), true
	default:
		return bus.StateMsg{}, false
	}
}

// TranslateMouse maps a mouse-wheel event to a local up/down intent.
func TranslateMouse(msg tea.MouseMsg, now time.Time) (bus.StateMsg, bool) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return local(bus.LocalUp, now), true
	case tea.MouseButtonWheelDown:
		return local(bus.LocalDown, now), true
	default:
		return bus.StateMsg{}, false
	}
}

func local(intent bus.LocalIntent, now time.Time) bus.StateMsg {
	return bus.StateMsg{InputLocal: &bus.InputLocalMsg{Intent: intent, Received: now}}
}

func global(intent bus.GlobalIntent, now time.Time) bus.StateMsg {
	return bus.StateMsg{InputGlobal: &bus.InputGlobalMsg{Intent: intent, Received: now}}
}

func globalSkip(now time.Time, delta time.Duration) bus.StateMsg {
	intent := bus.GlobalSkipForward
	if delta < 0 {
		intent = bus.GlobalSkipBackward
	}
	return bus.StateMsg{InputGlobal: &bus.InputGlobalMsg{Intent: intent, Received: now, SkipAmount: delta}}
}
