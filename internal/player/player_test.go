package player_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cadence/internal/player"
	"cadence/internal/testsupport"
)

func TestSetSourceUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := player.NewBeep(0.8)
	err := p.SetSource(path)
	if !errors.Is(err, player.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSetSourceMissingFile(t *testing.T) {
	p := player.NewBeep(0.8)
	if err := p.SetSource(filepath.Join(t.TempDir(), "gone.mp3")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestSetSourceUndecodableFile(t *testing.T) {
	path := testsupport.WriteAudioStub(t, t.TempDir(), "broken.mp3")
	p := player.NewBeep(0.8)
	if err := p.SetSource(path); err == nil {
		t.Fatal("undecodable file should error")
	}
}

func TestControlsRequireSource(t *testing.T) {
	p := player.NewBeep(0.8)
	if err := p.Play(); err == nil {
		t.Fatal("Play without source should error")
	}
	if err := p.Pause(); err == nil {
		t.Fatal("Pause without source should error")
	}
	if err := p.SeekMS(1000); err == nil {
		t.Fatal("Seek without source should error")
	}
}

func TestVolumeClamped(t *testing.T) {
	p := player.NewBeep(2.5)
	if got := p.Volume(); got != 1 {
		t.Fatalf("volume = %v, want clamped to 1", got)
	}
	if err := p.SetVolume(-3); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if got := p.Volume(); got != 0 {
		t.Fatalf("volume = %v, want clamped to 0", got)
	}
}

func TestProbeDurationUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := player.ProbeDuration(path); !errors.Is(err, player.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}
