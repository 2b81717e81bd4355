// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dewi-tim/musicplayer/internal/config"
)

// Logger is the handle the rest of the application logs through. When
// logging.log_libraries is false, this is scoped to our own packages
// instead of replacing the global charmbracelet/log logger, so
// third-party library chatter (bubbletea, beep) never reaches the log
// file.
type Logger = log.Logger

// Setup opens the configured log destination and returns a Logger.
// If logging is disabled, output is discarded.
func Setup(cfg config.Logging) (*Logger, func() error, error) {
	if !cfg.EnableLogging {
		l := log.NewWithOptions(io.Discard, log.Options{})
		return l, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("while creating log directory for %s: %w", cfg.LogPath, err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("while opening log file at %s: %w", cfg.LogPath, err)
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		ReportCaller:    cfg.LogLevel == config.LevelTrace || cfg.LogLevel == config.LevelDebug,
	})
	l.SetLevel(levelOf(cfg.LogLevel))

	if cfg.LogLibraries {
		log.SetOutput(f)
		log.SetLevel(levelOf(cfg.LogLevel))
	}

	return l, f.Close, nil
}

func levelOf(lv config.LogLevel) log.Level {
	switch lv {
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelWarn:
		return log.WarnLevel
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelTrace:
		return log.DebugLevel - 1
	default:
		return log.InfoLevel
	}
}
