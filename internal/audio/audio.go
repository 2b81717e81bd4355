// Package audio is the thin wrapper around the audio backend external
// collaborator (decode + play): Source.{Load, Play, Pause, Seek,
// Unload, Close}. One Backend
// serializes access to a single hardware output device shared by
// every loaded track.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// SupportedExt is the fixed set of extensions this backend knows how
// to decode. The scanner lists a wider set of extensions and probes
// durations only for these.
var SupportedExt = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
}

const outputBufferSize = 256 * time.Millisecond

// Source is the decode+play contract the Playback Engine depends on:
// a single real implementation (Backend) plus room for a fake in
// tests.
type Source interface {
	Load(path string) (<-chan struct{}, error)
	Play()
	Pause()
	Seek(at time.Duration) error
	Unload()
	Close()
}

// doneSignal is a completion channel closed exactly once, either by
// the decode callback on natural end-of-stream or by a later
// Load/Unload cancelling it on a track change. A sync.Once guards the
// close because both paths may race a replaced-but-still-mixing
// streamer.
type doneSignal struct {
	ch   chan struct{}
	once sync.Once
}

func newDoneSignal() *doneSignal {
	return &doneSignal{ch: make(chan struct{})}
}

func (d *doneSignal) close() { d.once.Do(func() { close(d.ch) }) }

// Backend owns the single hardware output device. Its methods guard
// its fields with mu, so it is safe for concurrent use; in this
// program only the Playback thread calls it.
type Backend struct {
	mu         sync.Mutex
	initOnce   sync.Once
	sampleRate beep.SampleRate
	stream     beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	format     beep.Format
	doneSig    *doneSignal // closed by the decode callback, or cancelled by Load/Unload
}

var _ Source = (*Backend)(nil)

// NewBackend returns an idle backend. The hardware device is opened
// lazily, on the first Load, at that track's sample rate.
func NewBackend() *Backend {
	return &Backend{sampleRate: beep.SampleRate(44100)}
}

// Load decodes the file at path and replaces whatever is currently
// loaded. The returned channel is closed exactly once: by the decode
// callback when playback of this load reaches end of stream, or by a
// subsequent Load/Unload that cancels it on a track change — the
// latter is what lets the Playback Engine's completion-notifier
// goroutine for the previous track observe the close and exit instead
// of blocking forever.
func (b *Backend) Load(path string) (<-chan struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening %s: %w", path, err)
	}

	stream, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("while decoding %s: %w", path, err)
	}

	b.initOnce.Do(func() {
		speaker.Init(b.sampleRate, b.sampleRate.N(outputBufferSize))
	})

	doneSig := newDoneSignal()
	resampled := beep.Resample(4, format.SampleRate, b.sampleRate, stream)
	seq := beep.Seq(resampled, beep.Callback(doneSig.close))
	ctrl := &beep.Ctrl{Streamer: seq, Paused: true}

	b.mu.Lock()
	oldStream := b.stream
	oldDoneSig := b.doneSig
	b.stream = stream
	b.format = format
	b.ctrl = ctrl
	b.doneSig = doneSig
	b.mu.Unlock()

	speaker.Clear()
	speaker.Play(ctrl)

	if oldStream != nil {
		_ = oldStream.Close()
	}
	if oldDoneSig != nil {
		oldDoneSig.close()
	}
	return doneSig.ch, nil
}

// Play resumes (or starts) playback of the currently-loaded stream.
func (b *Backend) Play() {
	b.mu.Lock()
	ctrl := b.ctrl
	b.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
}

// Pause freezes the currently-loaded stream in place.
func (b *Backend) Pause() {
	b.mu.Lock()
	ctrl := b.ctrl
	b.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

// Seek moves the playback position of the currently-loaded stream to
// at. The position is not clamped; an out-of-range position returns
// the stream's seek error.
func (b *Backend) Seek(at time.Duration) error {
	b.mu.Lock()
	stream := b.stream
	format := b.format
	b.mu.Unlock()
	if stream == nil {
		return nil
	}
	pos := format.SampleRate.N(at)
	speaker.Lock()
	err := stream.Seek(pos)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("while seeking: %w", err)
	}
	return nil
}

// Position returns how far into the currently-loaded stream playback
// has progressed.
func (b *Backend) Position() time.Duration {
	b.mu.Lock()
	stream := b.stream
	format := b.format
	b.mu.Unlock()
	if stream == nil {
		return 0
	}
	speaker.Lock()
	pos := stream.Position()
	speaker.Unlock()
	return format.SampleRate.D(pos)
}

// Unload stops and releases whatever is currently loaded, cancelling
// its completion-notifier goroutine by closing its doneSignal. Safe to
// call when nothing is loaded.
func (b *Backend) Unload() {
	b.mu.Lock()
	stream := b.stream
	doneSig := b.doneSig
	b.stream = nil
	b.ctrl = nil
	b.doneSig = nil
	b.mu.Unlock()

	speaker.Clear()
	if stream != nil {
		_ = stream.Close()
	}
	if doneSig != nil {
		doneSig.close()
	}
}

// Close releases the backend entirely.
func (b *Backend) Close() {
	b.Unload()
}

// Duration opens and decodes path just far enough to report its
// total length, then closes it. Used by the scanner, which needs a
// track's duration before it is ever loaded for playback.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("while opening %s: %w", path, err)
	}
	stream, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("while decoding %s: %w", path, err)
	}
	defer stream.Close()
	return format.SampleRate.D(stream.Len()), nil
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported extension %q", filepath.Ext(path))
	}
}
