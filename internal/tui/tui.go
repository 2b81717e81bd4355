// Package tui is the bubbletea glue between the Input thread and the
// terminal: bubbletea owns raw mode, the alternate screen, mouse
// capture, and (via its own renderer) the begin/end synchronized-
// update envelope, so the Model below only has to forward every raw
// event it receives to the Input thread's inbox and hand completed
// frames back in, the same shape as the upstream listenForPlayback
// pattern this is grounded on. Model never translates a key itself —
// that stays the Input thread's job, running as its own goroutine.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the thin adapter bubbletea drives. It never computes a
// frame itself; it only displays whatever the State thread last sent
// on frames.
type Model struct {
	toInput chan<- tea.Msg
	quit    <-chan struct{}
	frames  <-chan []byte

	lastFrame string
	width     int
	height    int
}

// New returns a Model that forwards every raw event to toInput,
// stops the program when quit closes, and displays whatever arrives
// on frames.
func New(toInput chan<- tea.Msg, quit <-chan struct{}, frames <-chan []byte) Model {
	return Model{toInput: toInput, quit: quit, frames: frames}
}

// frameMsg wraps a completed frame from the State thread.
type frameMsg []byte

func listenForFrame(frames <-chan []byte) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return frameClosedMsg{}
		}
		return frameMsg(f)
	}
}

// frameClosedMsg is sent when the frame channel closes (process shutdown).
type frameClosedMsg struct{}

// quitMsg is sent when the Input thread's Quit channel closes.
type quitMsg struct{}

func listenForQuit(quit <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-quit
		return quitMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForFrame(m.frames), listenForQuit(m.quit))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.forward(msg)
		return m, nil

	case tea.KeyMsg:
		m.forward(msg)
		return m, nil

	case tea.MouseMsg:
		m.forward(msg)
		return m, nil

	case frameMsg:
		m.lastFrame = string(msg)
		return m, listenForFrame(m.frames)

	case frameClosedMsg:
		return m, tea.Quit

	case quitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	return m.lastFrame
}

// forward hands a raw event to the Input thread without blocking the
// bubbletea event loop; a full inbox means Input is behind, and the
// event is dropped.
func (m Model) forward(msg tea.Msg) {
	select {
	case m.toInput <- msg:
	default:
	}
}

// Options are the bubbletea program options this player always runs
// with: alternate screen and mouse-wheel capture.
func Options() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}
