// Package config loads the frozen, read-only configuration the rest
// of the player is initialized from. It is the only package that
// touches the on-disk TOML format.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gap "github.com/muesli/go-app-paths"
)

// Color names recognized in the theme/color tables.
type Color string

const (
	ColorDefault       Color = "default"
	ColorBlack         Color = "black"
	ColorGrayDark      Color = "gray_dark"
	ColorGrayLight     Color = "gray_light"
	ColorWhite         Color = "white"
	ColorRed           Color = "red"
	ColorYellow        Color = "yellow"
	ColorGreen         Color = "green"
	ColorCyan          Color = "cyan"
	ColorBlue          Color = "blue"
	ColorMagenta       Color = "magenta"
	ColorBrightBlack   Color = "bright_black"
	ColorBrightRed     Color = "bright_red"
	ColorBrightYellow  Color = "bright_yellow"
	ColorBrightGreen   Color = "bright_green"
	ColorBrightCyan    Color = "bright_cyan"
	ColorBrightBlue    Color = "bright_blue"
	ColorBrightMagenta Color = "bright_magenta"
	ColorBrightWhite   Color = "bright_white"
)

// RGB is a three-byte truecolor value, used only when both
// color.custom_rgb_colors and COLORTERM=truecolor hold.
type RGB struct {
	R, G, B uint8
}

// LogLevel names the recognized logging.log_level values.
type LogLevel string

const (
	LevelError LogLevel = "ERROR"
	LevelWarn  LogLevel = "WARNING"
	LevelInfo  LogLevel = "INFO"
	LevelDebug LogLevel = "DEBUG"
	LevelTrace LogLevel = "TRACE"
)

// Logging holds the logging.* table.
type Logging struct {
	EnableLogging bool     `toml:"enable_logging"`
	LogPath       string   `toml:"log_path"`
	LogLevel      LogLevel `toml:"log_level"`
	LogLibraries  bool     `toml:"log_libraries"`
}

// Theme holds the theme.* table: an enumerated color name per role.
type Theme struct {
	Background                  Color `toml:"background"`
	Border                      Color `toml:"border"`
	AlbumText                   Color `toml:"album_text"`
	AlbumDivider                Color `toml:"album_divider"`
	TrackHighlight              Color `toml:"track_highlight"`
	TrackArtistName             Color `toml:"track_artist_name"`
	SelectableNormal            Color `toml:"selectable_normal"`
	SelectableHighlightActive   Color `toml:"selectable_highlight_active"`
	SelectableHighlightInactive Color `toml:"selectable_highlight_inactive"`
	IconColorDone               Color `toml:"icon_color_done"`
	IconColorPlaying            Color `toml:"icon_color_playing"`
	IconColorQueued             Color `toml:"icon_color_queued"`
}

// ColorTable holds the color.* table: one bool field plus an RGB
// override per theme role, each used only when both CustomRGBColors
// and a truecolor terminal hold.
type ColorTable struct {
	CustomRGBColors             bool `toml:"custom_rgb_colors"`
	Background                  *RGB `toml:"background,omitempty"`
	Border                      *RGB `toml:"border,omitempty"`
	AlbumText                   *RGB `toml:"album_text,omitempty"`
	AlbumDivider                *RGB `toml:"album_divider,omitempty"`
	TrackHighlight              *RGB `toml:"track_highlight,omitempty"`
	TrackArtistName             *RGB `toml:"track_artist_name,omitempty"`
	SelectableNormal            *RGB `toml:"selectable_normal,omitempty"`
	SelectableHighlightActive   *RGB `toml:"selectable_highlight_active,omitempty"`
	SelectableHighlightInactive *RGB `toml:"selectable_highlight_inactive,omitempty"`
	IconColorDone               *RGB `toml:"icon_color_done,omitempty"`
	IconColorPlaying            *RGB `toml:"icon_color_playing,omitempty"`
	IconColorQueued             *RGB `toml:"icon_color_queued,omitempty"`
}

// Lookup returns the RGB override for a theme role by its TOML name,
// if custom RGB colors are enabled and one was configured.
func (c ColorTable) Lookup(role string) (RGB, bool) {
	if !c.CustomRGBColors {
		return RGB{}, false
	}
	roles := map[string]*RGB{
		"background":                    c.Background,
		"border":                        c.Border,
		"album_text":                    c.AlbumText,
		"album_divider":                 c.AlbumDivider,
		"track_highlight":               c.TrackHighlight,
		"track_artist_name":             c.TrackArtistName,
		"selectable_normal":             c.SelectableNormal,
		"selectable_highlight_active":   c.SelectableHighlightActive,
		"selectable_highlight_inactive": c.SelectableHighlightInactive,
		"icon_color_done":               c.IconColorDone,
		"icon_color_playing":            c.IconColorPlaying,
		"icon_color_queued":             c.IconColorQueued,
	}
	p, ok := roles[role]
	if !ok || p == nil {
		return RGB{}, false
	}
	return *p, true
}

// Config is the frozen configuration struct consumed by the rest of
// the player at startup.
type Config struct {
	Framerate uint       `toml:"framerate"`
	MediaDirs []string   `toml:"media_dirs"`
	Logging   Logging    `toml:"logging"`
	Theme     Theme      `toml:"theme"`
	Color     ColorTable `toml:"color"`
}

// Default returns the built-in defaults, the same values written to
// disk on first run.
func Default() Config {
	return Config{
		Framerate: 60,
		MediaDirs: nil,
		Logging: Logging{
			EnableLogging: true,
			LogPath:       "~/.local/share/musicplayer/musicplayer.log",
			LogLevel:      LevelInfo,
			LogLibraries:  false,
		},
		Theme: Theme{
			Background:                  ColorDefault,
			Border:                      ColorGrayDark,
			AlbumText:                   ColorWhite,
			AlbumDivider:                ColorGrayDark,
			TrackHighlight:              ColorCyan,
			TrackArtistName:             ColorGrayLight,
			SelectableNormal:            ColorDefault,
			SelectableHighlightActive:   ColorCyan,
			SelectableHighlightInactive: ColorGrayDark,
			IconColorDone:               ColorGrayDark,
			IconColorPlaying:            ColorGreen,
			IconColorQueued:             ColorYellow,
		},
		Color: ColorTable{CustomRGBColors: false},
	}
}

// Validate rejects fields outside their defined range; it does not
// clamp them.
func (c *Config) Validate() error {
	if c.Framerate < 1 || c.Framerate > 240 {
		return fmt.Errorf("framerate must be in 1..=240, got %d", c.Framerate)
	}
	return nil
}

// ExpandHome expands a leading "~/" using the current user's home
// directory. Paths without that prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("while resolving home directory for %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// scope is the go-app-paths scope used to locate the per-user config
// directory, grounded in the same pattern glow uses for its own
// config resolution.
func scope() *gap.Scope { return gap.NewScope(gap.User, "music_player") }

// Dir returns the platform per-user config directory for this app:
// .../music_player/.
func Dir() (string, error) {
	dirs, err := scope().ConfigDirs()
	if err != nil {
		return "", fmt.Errorf("while locating config directory: %w", err)
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no config directory candidates returned")
	}
	return dirs[0], nil
}

// Path returns the full path to config.toml under Dir().
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// WriteDefault writes the default config to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("while creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating config file at %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(Default()); err != nil {
		return fmt.Errorf("while writing default config to %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the TOML config at path.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("while parsing config at %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("while validating config at %s: %w", path, err)
	}
	expanded := make([]string, 0, len(cfg.MediaDirs))
	for _, d := range cfg.MediaDirs {
		e, err := ExpandHome(d)
		if err != nil {
			return Config{}, err
		}
		expanded = append(expanded, e)
	}
	cfg.MediaDirs = expanded

	if cfg.Logging.LogPath != "" {
		e, err := ExpandHome(cfg.Logging.LogPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Logging.LogPath = e
	}
	return cfg, nil
}
