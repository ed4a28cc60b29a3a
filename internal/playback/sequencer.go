// Package playback implements the sequencing state machine that decides
// which track plays next. It owns the active list, queue, and history;
// callers drive it through operations and never reach into the sequences
// directly.
package playback

import (
	"log/slog"
	"math/rand"

	"cadence/internal/catalog"
	"cadence/internal/logging"
)

// RepeatMode cycles off -> all -> one.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// historyLimit bounds the played-index history; oldest entries are evicted.
const historyLimit = 50

// Player is the external audio backend the sequencer commands.
type Player interface {
	SetSource(path string) error
	Play() error
	Pause() error
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand overrides the shuffle index source. Tests use it for determinism.
func WithRand(intn func(n int) int) Option {
	return func(s *Sequencer) {
		s.intn = intn
	}
}

// WithLogger attaches a logger; the default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// Sequencer is the playback state machine. It is not safe for concurrent
// use; the owning control loop serializes calls.
type Sequencer struct {
	player Player
	logger *slog.Logger
	intn   func(n int) int

	activeList   []catalog.Track
	currentIndex int
	isPlaying    bool
	shuffle      bool
	repeatMode   RepeatMode
	queue        []int
	history      []int
}

// New returns a sequencer with an empty active list.
func New(player Player, opts ...Option) *Sequencer {
	s := &Sequencer{
		player:       player,
		logger:       logging.NewNop(),
		intn:         rand.Intn,
		currentIndex: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectActiveList replaces the active list, resets the current index, and
// clears the queue. History is kept so previous() still works across list
// switches.
func (s *Sequencer) SelectActiveList(list []catalog.Track) {
	s.activeList = append([]catalog.Track(nil), list...)
	s.currentIndex = -1
	s.isPlaying = false
	s.queue = nil
}

// Play starts the track at index. Out-of-range indices are a silent no-op.
func (s *Sequencer) Play(index int) {
	if index < 0 || index >= len(s.activeList) {
		return
	}
	track := s.activeList[index]
	if err := s.player.SetSource(track.Path); err != nil {
		s.logger.Warn("set source failed", logging.Args(logging.String("path", track.Path), logging.Error(err))...)
		return
	}
	if err := s.player.Play(); err != nil {
		s.logger.Warn("play failed", logging.Args(logging.String("path", track.Path), logging.Error(err))...)
		return
	}
	s.currentIndex = index
	s.pushHistory(index)
	s.isPlaying = true
	s.logger.Debug("playing", logging.Args(logging.Int("index", index), logging.String("title", track.DisplayTitle()))...)
}

func (s *Sequencer) pushHistory(index int) {
	s.history = append(s.history, index)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

// TogglePlayPause starts playback at index 0 when nothing is current,
// otherwise flips the paused state.
func (s *Sequencer) TogglePlayPause() {
	if s.currentIndex < 0 {
		if len(s.activeList) > 0 {
			s.Play(0)
		}
		return
	}
	if s.isPlaying {
		if err := s.player.Pause(); err != nil {
			s.logger.Warn("pause failed", logging.Args(logging.Error(err))...)
			return
		}
		s.isPlaying = false
		return
	}
	if err := s.player.Play(); err != nil {
		s.logger.Warn("resume failed", logging.Args(logging.Error(err))...)
		return
	}
	s.isPlaying = true
}

// Next advances playback. Queue entries win over shuffle; shuffle wins over
// sequential advance; sequential advance wraps to 0.
func (s *Sequencer) Next() {
	if len(s.activeList) == 0 {
		return
	}
	if len(s.queue) > 0 {
		index := s.queue[0]
		s.queue = s.queue[1:]
		s.Play(index)
		return
	}
	if s.shuffle {
		s.Play(s.intn(len(s.activeList)))
		return
	}
	s.Play((s.currentIndex + 1 + len(s.activeList)) % len(s.activeList))
}

// Previous steps back. With shuffle on and more than one history entry it
// rewinds through history; otherwise it wraps sequentially.
func (s *Sequencer) Previous() {
	if len(s.activeList) == 0 {
		return
	}
	if s.shuffle && len(s.history) > 1 {
		s.history = s.history[:len(s.history)-1]
		earlier := s.history[len(s.history)-1]
		s.history = s.history[:len(s.history)-1]
		s.Play(earlier)
		return
	}
	index := s.currentIndex - 1
	if index < 0 {
		index = len(s.activeList) - 1
	}
	s.Play(index)
}

// OnEndOfMedia reacts to the player's end-of-track signal. At the end of a
// non-repeating list playback stops without wrapping.
func (s *Sequencer) OnEndOfMedia() {
	switch {
	case s.repeatMode == RepeatOne:
		s.Play(s.currentIndex)
	case s.repeatMode == RepeatAll || s.shuffle:
		s.Next()
	case s.currentIndex < len(s.activeList)-1:
		s.Next()
	default:
		s.isPlaying = false
	}
}

// ToggleShuffle flips shuffle without touching the current index.
func (s *Sequencer) ToggleShuffle() bool {
	s.shuffle = !s.shuffle
	return s.shuffle
}

// SetShuffle forces the shuffle flag, used when restoring saved settings.
func (s *Sequencer) SetShuffle(on bool) {
	s.shuffle = on
}

// CycleRepeat advances off -> all -> one -> off.
func (s *Sequencer) CycleRepeat() RepeatMode {
	s.repeatMode = (s.repeatMode + 1) % 3
	return s.repeatMode
}

// SetRepeat forces the repeat mode, used when restoring saved settings.
func (s *Sequencer) SetRepeat(mode RepeatMode) {
	if mode < RepeatOff || mode > RepeatOne {
		mode = RepeatOff
	}
	s.repeatMode = mode
}

// Enqueue adds an active-list index to the queue; playNext puts it at the
// front. Out-of-range indices are rejected silently.
func (s *Sequencer) Enqueue(index int, playNext bool) {
	if index < 0 || index >= len(s.activeList) {
		return
	}
	if playNext {
		s.queue = append([]int{index}, s.queue...)
		return
	}
	s.queue = append(s.queue, index)
}

// Current returns the playing track, or false when nothing is current.
func (s *Sequencer) Current() (catalog.Track, bool) {
	if s.currentIndex < 0 || s.currentIndex >= len(s.activeList) {
		return catalog.Track{}, false
	}
	return s.activeList[s.currentIndex], true
}

// CurrentIndex returns the active-list position, -1 when nothing is current.
func (s *Sequencer) CurrentIndex() int { return s.currentIndex }

// IsPlaying reports whether playback is active rather than paused/stopped.
func (s *Sequencer) IsPlaying() bool { return s.isPlaying }

// Shuffle reports the shuffle flag.
func (s *Sequencer) Shuffle() bool { return s.shuffle }

// Repeat reports the repeat mode.
func (s *Sequencer) Repeat() RepeatMode { return s.repeatMode }

// QueueLen reports pending queue entries.
func (s *Sequencer) QueueLen() int { return len(s.queue) }

// ListLen reports the active list size.
func (s *Sequencer) ListLen() int { return len(s.activeList) }
