// Package player drives audio output through the beep speaker. It implements
// the backend the playback sequencer commands and surfaces end-of-track
// events on a channel so the control loop stays single-threaded.
package player

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// mixRate is the fixed speaker rate; every source is resampled to it so the
// speaker is initialized exactly once.
const mixRate = beep.SampleRate(44100)

// Beep is a speaker-backed player. All methods are safe for use from a single
// control loop; the speaker's own mixer goroutine is synchronized internally.
type Beep struct {
	mu       sync.Mutex
	initOnce sync.Once
	initErr  error

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	level float64
	gen   int

	endOfMedia chan struct{}
}

// NewBeep returns a player at the given initial volume (0..1).
func NewBeep(level float64) *Beep {
	return &Beep{
		level:      clampLevel(level),
		endOfMedia: make(chan struct{}, 1),
	}
}

// EndOfMedia delivers one signal per track that plays to completion. The
// channel is buffered so the speaker callback never blocks.
func (b *Beep) EndOfMedia() <-chan struct{} {
	return b.endOfMedia
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return streamer, format, nil
}

// SetSource loads a file and stages it paused at position zero. Any previous
// source is stopped and closed.
func (b *Beep) SetSource(path string) error {
	streamer, format, err := decode(path)
	if err != nil {
		return err
	}

	b.initOnce.Do(func() {
		b.initErr = speaker.Init(mixRate, mixRate.N(time.Second/10))
	})
	if b.initErr != nil {
		_ = streamer.Close()
		return fmt.Errorf("init speaker: %w", b.initErr)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	speaker.Clear()
	if b.streamer != nil {
		_ = b.streamer.Close()
	}

	b.streamer = streamer
	b.format = format
	b.gen++
	gen := b.gen

	resampled := beep.Resample(4, format.SampleRate, mixRate, streamer)
	b.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	b.volume = &effects.Volume{Streamer: b.ctrl, Base: 2}
	applyLevel(b.volume, b.level)

	speaker.Play(beep.Seq(b.volume, beep.Callback(func() {
		b.trackFinished(gen)
	})))
	return nil
}

// trackFinished runs on the speaker goroutine. Signals from sources replaced
// by a later SetSource are dropped.
func (b *Beep) trackFinished(gen int) {
	b.mu.Lock()
	current := b.gen == gen
	b.mu.Unlock()
	if !current {
		return
	}
	select {
	case b.endOfMedia <- struct{}{}:
	default:
	}
}

// Play resumes the staged source.
func (b *Beep) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return errors.New("no source set")
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause halts output without losing position.
func (b *Beep) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return errors.New("no source set")
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// SeekMS jumps to an absolute position in the current source.
func (b *Beep) SeekMS(ms int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return errors.New("no source set")
	}
	if ms < 0 {
		ms = 0
	}
	target := b.format.SampleRate.N(time.Duration(ms) * time.Millisecond)
	if max := b.streamer.Len(); target > max {
		target = max
	}
	speaker.Lock()
	err := b.streamer.Seek(target)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek to %dms: %w", ms, err)
	}
	return nil
}

// SetVolume adjusts output level, 0..1. Zero mutes.
func (b *Beep) SetVolume(level float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = clampLevel(level)
	if b.volume == nil {
		return nil
	}
	speaker.Lock()
	applyLevel(b.volume, b.level)
	speaker.Unlock()
	return nil
}

// Volume returns the current level, 0..1.
func (b *Beep) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

// PositionMS returns the playhead position in milliseconds. It only reads
// already-decoded state and never touches the filesystem.
func (b *Beep) PositionMS() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := b.streamer.Position()
	speaker.Unlock()
	return b.format.SampleRate.D(pos).Milliseconds()
}

// DurationMS returns the current source's total length in milliseconds.
func (b *Beep) DurationMS() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	return b.format.SampleRate.D(b.streamer.Len()).Milliseconds()
}

// Close stops output and releases the current source.
func (b *Beep) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	speaker.Clear()
	if b.streamer != nil {
		err := b.streamer.Close()
		b.streamer = nil
		b.ctrl = nil
		b.volume = nil
		return err
	}
	return nil
}

func clampLevel(level float64) float64 {
	return math.Min(1, math.Max(0, level))
}

// applyLevel maps a linear 0..1 level onto the exponential volume effect.
func applyLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}

// ProbeDuration decodes just enough of a file to report its playable length
// in whole seconds. The catalog scanner plugs it in as the duration probe.
func ProbeDuration(path string) (int, error) {
	streamer, format, err := decode(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return int(format.SampleRate.D(streamer.Len()).Round(time.Second) / time.Second), nil
}
