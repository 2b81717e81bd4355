// Package scanner implements the Scanner thread: it walks the
// configured media directories, skips hidden directories, and emits
// one tag-parsed track per recognized audio file. No pack library
// covers concurrent directory walking, so the walk and its worker
// pool are built directly on os/filepath and sync (see DESIGN.md).
package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dewi-tim/musicplayer/internal/audio"
	"github.com/dewi-tim/musicplayer/internal/clock"
	"github.com/dewi-tim/musicplayer/internal/tagreader"
	"github.com/dewi-tim/musicplayer/internal/track"
)

// workerCount bounds how many files are tag-parsed concurrently; the
// walk itself is single-threaded (directory order matters for a
// stable, deterministic scan).
const workerCount = 4

// recognizedExt is the full set of audio file extensions the scanner
// indexes. Only the subset in audio.SupportedExt can actually be
// decoded for playback; files outside that subset are still tagged
// and listed, with duration left at zero.
var recognizedExt = map[string]bool{
	".aac": true, ".ape": true, ".aiff": true, ".aif": true,
	".afc": true, ".aifc": true, ".mp3": true, ".mp2": true,
	".mp1": true, ".wav": true, ".wave": true, ".wv": true,
	".opus": true, ".flac": true, ".ogg": true, ".mp4": true,
	".m4a": true, ".m4b": true, ".m4p": true, ".m4r": true,
	".m4v": true, ".3gp": true, ".mpc": true, ".mp+": true,
	".mpp": true, ".spx": true,
}

// Found is sent, one per recognized file, as the scan progresses.
type Found struct {
	Track track.Track
	Err   error // not set by Scan: a failed tag parse still yields a Track titled from the file name
}

// Scan walks every directory in dirs, parses tags for every
// recognized audio file, and sends one Found per file on out. Scan
// raises clk's scanning flag on entry and lowers it before returning,
// regardless of outcome. Scan blocks until the walk and every
// in-flight tag parse complete; callers run it in its own goroutine.
func Scan(dirs []string, out chan<- Found, clk *clock.Clock, logger *log.Logger) {
	clk.SetScanning(true)
	defer clk.SetScanning(false)

	paths := make(chan string, workerCount*4)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for path := range paths {
				out <- parseOne(path, logger)
			}
		}()
	}

	for _, dir := range dirs {
		walkDir(dir, paths, logger)
	}
	close(paths)
	wg.Wait()
}

func walkDir(root string, paths chan<- string, logger *log.Logger) {
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error", "path", p, "err", err)
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if recognizedExt[strings.ToLower(filepath.Ext(p))] {
			paths <- p
		}
		return nil
	})
	if err != nil {
		logger.Error("scan directory", "dir", root, "err", err)
	}
}

func parseOne(path string, logger *log.Logger) Found {
	meta, err := tagreader.Parse(path)
	if err != nil {
		logger.Warn("tag parse failed, using filename fallback", "path", path, "err", err)
		meta = tagreader.Metadata{}
	}

	var dur time.Duration
	if audio.SupportedExt[strings.ToLower(filepath.Ext(path))] {
		var err error
		dur, err = audio.Duration(path)
		if err != nil {
			logger.Warn("duration probe failed", "path", path, "err", err)
		}
	}

	return Found{Track: tagreader.ToTrack(path, dur, meta)}
}
