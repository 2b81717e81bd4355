package render

import (
	"strings"
	"testing"
	"time"

	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/config"
	"github.com/dewi-tim/musicplayer/internal/playlist"
	"github.com/dewi-tim/musicplayer/internal/track"
)

func TestFitStrDegenerateWidths(t *testing.T) {
	cases := map[int]string{
		0: "",
		1: ".",
		2: "..",
		3: "...",
	}
	for width, want := range cases {
		if got := fitStr("anything at all", width); got != want {
			t.Errorf("fitStr(_, %d) = %q, want %q", width, got, want)
		}
	}
}

func TestFitStrPadsShortText(t *testing.T) {
	got := fitStr("hi", 5)
	if got != "hi   " {
		t.Fatalf("fitStr pad = %q, want %q", got, "hi   ")
	}
}

func TestFitStrTruncatesLongTextWithEllipsis(t *testing.T) {
	got := fitStr("a very long track title", 10)
	if len(got) == 0 || !strings.HasSuffix(got, "...") {
		t.Fatalf("fitStr truncation = %q, want a ...-suffixed string", got)
	}
}

func TestFitStrExactWidthIsUnchanged(t *testing.T) {
	if got := fitStr("abcde", 5); got != "abcde" {
		t.Fatalf("fitStr exact width = %q, want %q", got, "abcde")
	}
}

func TestFormatDurationSwitchesToHoursPastOneHour(t *testing.T) {
	if got := formatDuration(90 * time.Second); got != "01:30" {
		t.Fatalf("formatDuration(90s) = %q, want %q", got, "01:30")
	}
	if got := formatDuration(90 * time.Minute); got != "1:30:00" {
		t.Fatalf("formatDuration(90m) = %q, want %q", got, "1:30:00")
	}
}

func TestProgressBarZeroAndFullFill(t *testing.T) {
	empty := progressBar(0, 10)
	if strings.Count(empty, "━") != 0 {
		t.Fatalf("progressBar(0) = %q, want no filled cells", empty)
	}
	full := progressBar(1, 10)
	if strings.Count(full, "⋅") != 0 {
		t.Fatalf("progressBar(1) = %q, want no empty cells", full)
	}
}

func TestProgressBarNoOffByOneAsWidthShrinks(t *testing.T) {
	for _, w := range []int{1, 2, 3, 20} {
		bar := progressBar(0.5, w)
		if got := visibleWidth(bar); got != w {
			t.Errorf("progressBar(0.5, %d) width = %d, want %d", w, got, w)
		}
	}
}

// visibleWidth counts runes, matching how progressBar composes its
// cells (one marker rune per cell).
func visibleWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func TestFilterStatusPrefersPlayingOverQueuedOverPlayed(t *testing.T) {
	ann := track.HashArtist("Ann")
	mk := func(id uint64) track.Track {
		return track.Track{ID: track.ID(id), ArtistID: ann}
	}
	pl := playlist.New()
	pl.Replace([]track.Track{mk(1), mk(2), mk(3)}, 1, time.Now())

	f := track.FilterEntry{Kind: track.FilterArtist, ArtistID: ann}
	if got := filterStatus(pl, f); got != playlist.StatusPlaying {
		t.Fatalf("filterStatus with a playing track = %v, want StatusPlaying", got)
	}

	pl.Replace([]track.Track{mk(1), mk(2)}, 0, time.Now())
	other := track.FilterEntry{Kind: track.FilterArtist, ArtistID: track.HashArtist("Bea")}
	if got := filterStatus(pl, other); got != playlist.StatusNone {
		t.Fatalf("filterStatus for an artist with nothing enqueued = %v, want StatusNone", got)
	}
}

func TestStatusIndicatorGlyphs(t *testing.T) {
	cases := map[playlist.TrackStatus]string{
		playlist.StatusPlayed:  "-",
		playlist.StatusPlaying: ">",
		playlist.StatusQueued:  "+",
		playlist.StatusNone:    " ",
	}
	for status, want := range cases {
		if got := statusIndicator(status); got != want {
			t.Errorf("statusIndicator(%v) = %q, want %q", status, got, want)
		}
	}
}

func TestStatusBarBlankBelowMinWidth(t *testing.T) {
	snap := clock.Snapshot{State: clock.Playing}
	pal := NewPalette(config.Theme{}, config.ColorTable{})
	bar := StatusBar(19, pal, snap, time.Now())
	if strings.TrimSpace(string(bar)) != "" {
		t.Fatalf("StatusBar below width 20 should be blank, got %q", bar)
	}
}

func TestBarWidthMatchesRenderedBarCells(t *testing.T) {
	snap := clock.Snapshot{State: clock.Playing, Duration: time.Minute}
	pal := NewPalette(config.Theme{}, config.ColorTable{})
	for _, width := range []int{20, 40, 120} {
		out := string(StatusBar(width, pal, snap, time.Now()))
		i := strings.Index(out, "[")
		j := strings.Index(out, "]")
		if i < 0 || j < i {
			t.Fatalf("StatusBar(%d) missing progress-bar brackets: %q", width, out)
		}
		cells := 0
		for range out[i+1 : j] {
			cells++
		}
		if cells != BarWidth(width) {
			t.Errorf("StatusBar(%d) draws %d bar cells, BarWidth publishes %d", width, cells, BarWidth(width))
		}
	}
}

func TestStatusBarStoppedShowsPlaceholderTimes(t *testing.T) {
	snap := clock.Snapshot{State: clock.Stopped}
	pal := NewPalette(config.Theme{}, config.ColorTable{})
	bar := string(StatusBar(40, pal, snap, time.Now()))
	if !strings.Contains(bar, "--:--") {
		t.Fatalf("stopped status bar = %q, want placeholder time", bar)
	}
}
