// Command musicplayer is the terminal music player's entry point. It
// takes no arguments: on first run it writes a default config and
// exits; otherwise it wires the seven worker threads together and
// runs until the user quits or a thread reports a fatal error.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/musicplayer/internal/bus"
	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/config"
	"github.com/dewi-tim/musicplayer/internal/input"
	"github.com/dewi-tim/musicplayer/internal/logging"
	"github.com/dewi-tim/musicplayer/internal/playback"
	"github.com/dewi-tim/musicplayer/internal/render"
	"github.com/dewi-tim/musicplayer/internal/renderdelay"
	"github.com/dewi-tim/musicplayer/internal/scanner"
	"github.com/dewi-tim/musicplayer/internal/state"
	"github.com/dewi-tim/musicplayer/internal/tui"
	"github.com/dewi-tim/musicplayer/internal/updater"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath, err := config.Path()
	if err != nil {
		fmt.Println("could not locate config directory:", err)
		return 1
	}

	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		if err := config.WriteDefault(cfgPath); err != nil {
			fmt.Println("could not write default config:", err)
			return 1
		}
		fmt.Printf("wrote default config to %s; edit media_dirs and run again\n", cfgPath)
		return 0
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Println("could not load config:", err)
		return 1
	}
	if len(cfg.MediaDirs) == 0 {
		fmt.Println("no media_dirs configured; edit", cfgPath)
		return 0
	}

	logger, closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Println("could not set up logging:", err)
		return 1
	}
	defer closeLog()

	defer recoverPanic(logger)

	return wireAndRun(cfg, logger)
}

func wireAndRun(cfg config.Config, logger *logging.Logger) int {
	clk := clock.New()
	pal := render.NewPalette(cfg.Theme, cfg.Color)

	exit := make(chan struct{})
	exitErr := make(chan error, 1)

	stateInbox := make(chan bus.StateMsg, bus.StateCap)
	frames := make(chan []byte, bus.TUICap)

	pb := playback.New(stateInbox, clk, logger)
	upd := updater.New(clk, stateInbox)
	delay := renderdelay.New(cfg.Framerate, stateInbox)
	eng := state.New(clk, pb.Inbox(), delay.Inbox(), frames, upd, pal, logger)
	in := input.New(stateInbox)

	go pb.Run(exit)
	go delay.Run(exit)
	go eng.Run(stateInbox, exit)
	go in.Run(exit)

	scanResults := make(chan scanner.Found, 64)
	go func() {
		scanner.Scan(cfg.MediaDirs, scanResults, clk, logger)
		close(scanResults)
	}()
	go forwardScanResults(scanResults, stateInbox, pb.Inbox(), exit)

	model := tui.New(in.Inbox(), in.Quit(), frames)
	program := tea.NewProgram(model, tui.Options()...)

	go func() {
		_, err := program.Run()
		close(exit)
		exitErr <- err
	}()

	err := <-exitErr
	if err != nil {
		logger.Error("fatal", "err", err)
		fmt.Println("fatal error:", err)
		return 1
	}
	return 0
}

// forwardScanResults drains the scanner's output, inserting each
// track into the State thread's library and registering its path
// (and duration) with Playback ahead of any future Play/Que.
func forwardScanResults(results <-chan scanner.Found, toState chan<- bus.StateMsg, toPlayback chan<- bus.PlaybackMsg, exit <-chan struct{}) {
	for {
		select {
		case <-exit:
			return
		case found, ok := <-results:
			if !ok {
				select {
				case toState <- bus.StateMsg{ScanDone: &struct{}{}}:
				case <-exit:
				}
				return
			}
			if found.Err != nil {
				continue
			}
			select {
			case toPlayback <- bus.PlaybackMsg{RegisterPath: &bus.RegisterPathMsg{ID: found.Track.ID, Path: found.Track.Path, Duration: found.Track.Duration}}:
			case <-exit:
				return
			}
			select {
			case toState <- bus.StateMsg{ScanAddSong: &bus.ScanAddSongMsg{Track: found.Track}}:
			case <-exit:
				return
			}
		}
	}
}

// recoverPanic is the process-wide panic hook: log location, payload,
// and stack, then let the process exit. The terminal may be left in
// raw mode; a hard panic's advice is to run `reset`.
func recoverPanic(logger *logging.Logger) {
	if r := recover(); r != nil {
		logger.Error("panic", "payload", r, "stack", string(debug.Stack()))
		fmt.Println("musicplayer crashed; if your terminal looks wrong, run `reset`")
	}
}
