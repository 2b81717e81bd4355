// Package render builds one frame of the library browser as a single
// byte buffer, ready for the TUI thread to write inside a
// synchronized-update envelope. Text measurement uses
// mattn/go-runewidth so East-Asian and combining-mark widths are
// accounted for; styling goes through lipgloss, which already
// coalesces a styled run into a single SGR sequence per Render call,
// so a "run" here is a maximal span sharing one style.
package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/config"
	"github.com/dewi-tim/musicplayer/internal/library"
	"github.com/dewi-tim/musicplayer/internal/playlist"
	"github.com/dewi-tim/musicplayer/internal/track"
)

// spinnerGlyphs are the eight precomputed three-dot braille frames,
// one full revolution per 0.5s (see internal/updater).
var spinnerGlyphs = [8]string{
	"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧",
}

// Palette resolves theme role names to lipgloss styles, selecting a
// 4-bit or 24-bit color renderer at construction time per
// COLORTERM and config.Color.CustomRGBColors.
type Palette struct {
	truecolor bool
	theme     config.Theme
	colors    config.ColorTable
}

// NewPalette reads COLORTERM once to decide which color renderer this
// process uses for the remainder of its life.
func NewPalette(theme config.Theme, colors config.ColorTable) Palette {
	return Palette{
		truecolor: os.Getenv("COLORTERM") == "truecolor" && colors.CustomRGBColors,
		theme:     theme,
		colors:    colors,
	}
}

func (p Palette) resolve(role string, fallback config.Color) lipgloss.Color {
	if p.truecolor {
		if rgb, ok := p.colors.Lookup(role); ok {
			return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B))
		}
	}
	return ansi4bit(fallback)
}

func ansi4bit(c config.Color) lipgloss.Color {
	codes := map[config.Color]string{
		config.ColorDefault:       "",
		config.ColorBlack:         "0",
		config.ColorGrayDark:      "8",
		config.ColorGrayLight:     "7",
		config.ColorWhite:         "15",
		config.ColorRed:           "1",
		config.ColorYellow:        "3",
		config.ColorGreen:         "2",
		config.ColorCyan:          "6",
		config.ColorBlue:          "4",
		config.ColorMagenta:       "5",
		config.ColorBrightBlack:   "8",
		config.ColorBrightRed:     "9",
		config.ColorBrightYellow:  "11",
		config.ColorBrightGreen:   "10",
		config.ColorBrightCyan:    "14",
		config.ColorBrightBlue:    "12",
		config.ColorBrightMagenta: "13",
		config.ColorBrightWhite:   "15",
	}
	return lipgloss.Color(codes[c])
}

func (p Palette) style(role string, fallback config.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.resolve(role, fallback))
}

// fitStr measures s in terminal cells and truncates or pads it to
// exactly cells wide. A degenerate target of 1-3 cells emits "."
// repeated.
func fitStr(s string, cells int) string {
	if cells <= 0 {
		return ""
	}
	if cells <= 3 {
		return strings.Repeat(".", cells)
	}
	w := runewidth.StringWidth(s)
	if w == cells {
		return s
	}
	if w < cells {
		return s + strings.Repeat(" ", cells-w)
	}
	return runewidth.Truncate(s, cells, "...")
}

// formatDuration renders mm:ss, or h:mm:ss once d reaches one hour.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h, rem := total/3600, total%3600
	m, s := rem/60, rem%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// View is the data the render pipeline needs beyond the raw snapshot:
// the visible windows of both library lists, ready to lay out.
type View struct {
	FilterEntries []track.FilterEntry
	FilterCursor  int
	Rows          []library.Row
	RowCursor     int
	Tab           library.Tab
	Column        library.Column
	BulkSelect    library.BulkSelectMode
}

// Frame builds the full library-browser frame at the given terminal
// size.
func Frame(width, height int, pal Palette, snap clock.Snapshot, pl *playlist.Playlist, v View, now time.Time) []byte {
	var b strings.Builder

	headerStyle := pal.style("background", config.ColorDefault).Reverse(true)
	b.WriteString(headerStyle.Render(fitStr(headerLine(v, snap, now), width)))
	b.WriteString("\n")

	bodyHeight := height - 2 // header + status
	if bodyHeight < 0 {
		bodyHeight = 0
	}
	filterWidth := width / 3
	if filterWidth > 45 {
		filterWidth = 45
	}
	trackWidth := width - filterWidth - 1

	for i := 0; i < bodyHeight; i++ {
		left := ""
		if i < len(v.FilterEntries) {
			left = renderFilterRow(pal, v.FilterEntries[i], i == v.FilterCursor, v.Column == library.ColumnFilter, pl, filterWidth)
		} else {
			left = strings.Repeat(" ", filterWidth)
		}
		b.WriteString(left)
		b.WriteString(pal.style("border", config.ColorGrayDark).Render("│"))
		right := ""
		if i < len(v.Rows) {
			right = renderTrackRow(pal, v.Rows[i], i == v.RowCursor, v.Column == library.ColumnTracks, pl, trackWidth)
		} else {
			right = strings.Repeat(" ", trackWidth)
		}
		b.WriteString(right)
		b.WriteString("\n")
	}

	b.Write(StatusBar(width, pal, snap, now))
	return []byte(b.String())
}

func headerLine(v View, snap clock.Snapshot, now time.Time) string {
	tab := "Artists"
	if v.Tab == library.TabYear {
		tab = "Year"
	}
	line := fmt.Sprintf(" %s | select: %s ", tab, v.BulkSelect)
	if snap.Scanning {
		line += spinnerGlyph(now) + " "
	}
	return line
}

func spinnerGlyph(now time.Time) string {
	idx := int(now.UnixMilli()/62) % len(spinnerGlyphs)
	return spinnerGlyphs[idx]
}

func renderFilterRow(pal Palette, f track.FilterEntry, selected, active bool, pl *playlist.Playlist, width int) string {
	var label string
	switch f.Kind {
	case track.FilterArtist:
		label = f.DisplayName
	case track.FilterYear:
		label = strconv.Itoa(f.Year)
	default:
		label = "All"
	}
	status := filterStatus(pl, f)
	ind := statusIndicator(status)

	if selected {
		return highlightStyle(pal, active).Render(fitStr(ind+" "+label, width))
	}
	if width < 2 {
		return pal.style("selectable_normal", config.ColorDefault).Render(fitStr(label, width))
	}
	return iconStyle(pal, status).Render(ind) +
		pal.style("selectable_normal", config.ColorDefault).Render(fitStr(" "+label, width-1))
}

// filterStatus reduces the playlist relationship of every track a
// filter entry covers to the single most relevant indicator:
// Playing > Queued > Played > None.
func filterStatus(pl *playlist.Playlist, f track.FilterEntry) playlist.TrackStatus {
	best := playlist.StatusNone
	for _, t := range pl.Tracks {
		if !filterMatches(f, t) {
			continue
		}
		switch pl.Status(t.ID) {
		case playlist.StatusPlaying:
			return playlist.StatusPlaying
		case playlist.StatusQueued:
			best = playlist.StatusQueued
		case playlist.StatusPlayed:
			if best == playlist.StatusNone {
				best = playlist.StatusPlayed
			}
		}
	}
	return best
}

func filterMatches(f track.FilterEntry, t track.Track) bool {
	switch f.Kind {
	case track.FilterArtist:
		return t.ArtistID == f.ArtistID
	case track.FilterYear:
		return t.HasYear && t.Year == f.Year
	default:
		return true
	}
}

func statusIndicator(status playlist.TrackStatus) string {
	switch status {
	case playlist.StatusPlayed:
		return "-"
	case playlist.StatusPlaying:
		return ">"
	case playlist.StatusQueued:
		return "+"
	default:
		return " "
	}
}

func iconStyle(pal Palette, status playlist.TrackStatus) lipgloss.Style {
	switch status {
	case playlist.StatusPlaying:
		return pal.style("icon_color_playing", config.ColorGreen)
	case playlist.StatusQueued:
		return pal.style("icon_color_queued", config.ColorYellow)
	case playlist.StatusPlayed:
		return pal.style("icon_color_done", config.ColorGrayDark)
	default:
		return pal.style("selectable_normal", config.ColorDefault)
	}
}

func highlightStyle(pal Palette, active bool) lipgloss.Style {
	if active {
		return pal.style("selectable_highlight_active", config.ColorCyan)
	}
	return pal.style("selectable_highlight_inactive", config.ColorGrayDark)
}

func renderTrackRow(pal Palette, row library.Row, selected, active bool, pl *playlist.Playlist, width int) string {
	if row.IsHeader {
		return renderHeaderRow(pal, row.Header, width)
	}

	t := row.Track
	status := pl.Status(t.ID)
	base := fmt.Sprintf("%s %02d %s", statusIndicator(status), t.TrackNumber, t.Title)
	artist := ""
	if a := t.DisplayArtist(); a != "" {
		artist = "  - " + a
	}
	suffix := "  " + formatDuration(t.Duration)

	if selected {
		return highlightStyle(pal, active).Render(fitStr(base+artist+suffix, width))
	}
	if status == playlist.StatusPlaying {
		return pal.style("track_highlight", config.ColorCyan).Render(fitStr(base+artist+suffix, width))
	}

	aw := runewidth.StringWidth(artist)
	sw := runewidth.StringWidth(suffix)
	bw := width - aw - sw
	if artist == "" || bw < 8 {
		return pal.style("selectable_normal", config.ColorDefault).Render(fitStr(base+artist+suffix, width))
	}
	return pal.style("selectable_normal", config.ColorDefault).Render(fitStr(base, bw)) +
		pal.style("track_artist_name", config.ColorGrayLight).Render(artist) +
		pal.style("selectable_normal", config.ColorDefault).Render(suffix)
}

func renderHeaderRow(pal Palette, h library.HeaderInfo, width int) string {
	title := " " + h.AlbumTitle + "  "
	tail := fmt.Sprintf("⎯⎯⎯⎯⎯ %d ", h.Year)
	tw := runewidth.StringWidth(title)
	if tw >= width {
		return pal.style("album_text", config.ColorWhite).Render(fitStr(title, width))
	}
	return pal.style("album_text", config.ColorWhite).Render(title) +
		pal.style("album_divider", config.ColorGrayDark).Render(fitStr(tail, width-tw))
}

// BarWidth returns the progress bar's cell count at the given
// terminal width: everything left after the two leading spaces, the
// state icon, the mm:ss/mm:ss block, the separating spaces, and the
// brackets. The State thread publishes this same value on the shared
// clock so the Updater ticks exactly once per bar-cell change.
func BarWidth(width int) int {
	w := width - 2 - 1 - 1 - 11 - 1 - 2 // spaces, icon, time/time, brackets
	if w < 1 {
		w = 1
	}
	return w
}

// StatusBar renders the bottom playback-status widget.
func StatusBar(width int, pal Palette, snap clock.Snapshot, now time.Time) []byte {
	if width < 20 {
		return []byte(strings.Repeat(" ", width))
	}

	icon := stateIcon(snap, now)
	elapsed, total := "--:--", "--:--"
	var bar string

	barWidth := BarWidth(width)

	switch snap.State {
	case clock.Playing, clock.Paused:
		e := snap.Elapsed(now)
		elapsed = formatDuration(e)
		total = formatDuration(snap.Duration)
		ratio := 0.0
		if snap.Duration > 0 {
			ratio = float64(e) / float64(snap.Duration)
		}
		bar = progressBar(ratio, barWidth)
	default:
		bar = strings.Repeat("/", barWidth)
	}

	line := fmt.Sprintf("  %s %s/%s [%s]", icon, elapsed, total, bar)
	return []byte(pal.style("background", config.ColorDefault).Render(fitStr(line, width)))
}

func progressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	if filled >= width {
		return strings.Repeat("━", width-1) + "➤"
	}
	if filled < 0 {
		filled = 0
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("━", filled))
	b.WriteString("➤")
	b.WriteString(strings.Repeat("⋅", width-filled-1))
	return b.String()
}

func stateIcon(snap clock.Snapshot, now time.Time) string {
	switch snap.State {
	case clock.Playing:
		return "⏵"
	case clock.Paused:
		return "⏸"
	case clock.Loading:
		return spinnerGlyph(now)
	default:
		return "⏹"
	}
}
