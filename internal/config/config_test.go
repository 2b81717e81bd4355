package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultSerializeParseRoundTrip(t *testing.T) {
	def := Default()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(def); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got Config
	if _, err := toml.Decode(buf.String(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Framerate != def.Framerate {
		t.Fatalf("framerate round-trip: got %d, want %d", got.Framerate, def.Framerate)
	}
	if got.Logging.LogLevel != def.Logging.LogLevel {
		t.Fatalf("log level round-trip: got %v, want %v", got.Logging.LogLevel, def.Logging.LogLevel)
	}
	if got.Theme.TrackHighlight != def.Theme.TrackHighlight {
		t.Fatalf("theme round-trip: got %v, want %v", got.Theme.TrackHighlight, def.Theme.TrackHighlight)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/h")
	got, err := ExpandHome("~/x")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != "/h/x" {
		t.Fatalf("ExpandHome(~/x) = %q, want /h/x", got)
	}
}

func TestLoadExpandsMediaDirs(t *testing.T) {
	t.Setenv("HOME", "/h")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "framerate = 30\nmedia_dirs = [\"~/Music\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.MediaDirs) != 1 || cfg.MediaDirs[0] != "/h/Music" {
		t.Fatalf("media dirs = %v, want [/h/Music]", cfg.MediaDirs)
	}
}

func TestValidateRejectsOutOfRangeFramerate(t *testing.T) {
	cfg := Default()
	cfg.Framerate = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for framerate 0")
	}
	cfg.Framerate = 241
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for framerate 241")
	}
}
