package main

import (
	"errors"
	"sync"

	"log/slog"

	"cadence/internal/catalog"
	"cadence/internal/ipc"
	"cadence/internal/playback"
	"cadence/internal/player"
)

// session owns the sequencer and player for one playback run. The mutex
// serializes the IPC goroutines, the end-of-media handler, and the watcher
// refresh into the single control flow the sequencer expects.
type session struct {
	mu        sync.Mutex
	sequencer *playback.Sequencer
	audio     *player.Beep
	logger    *slog.Logger

	source string
	stop   chan struct{}
	once   sync.Once
}

func newSession(sequencer *playback.Sequencer, audio *player.Beep, source string, logger *slog.Logger) *session {
	return &session{
		sequencer: sequencer,
		audio:     audio,
		logger:    logger,
		source:    source,
		stop:      make(chan struct{}),
	}
}

// Done is closed when a stop has been requested.
func (s *session) Done() <-chan struct{} {
	return s.stop
}

func (s *session) Status() ipc.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := ipc.StatusResponse{
		Playing:      s.sequencer.IsPlaying(),
		Index:        s.sequencer.CurrentIndex(),
		Volume:       s.audio.Volume(),
		Shuffle:      s.sequencer.Shuffle(),
		Repeat:       s.sequencer.Repeat().String(),
		ListLen:      s.sequencer.ListLen(),
		QueueLen:     s.sequencer.QueueLen(),
		ActiveSource: s.source,
	}
	if track, ok := s.sequencer.Current(); ok {
		resp.Title = track.DisplayTitle()
		resp.Artist = track.Artist
		resp.Album = track.Album
		resp.Path = track.Path
		resp.PositionMS = s.audio.PositionMS()
		resp.DurationMS = s.audio.DurationMS()
	}
	return resp
}

// PlayIndex starts playback at an explicit active-list position.
func (s *session) PlayIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.Play(index)
}

func (s *session) PlayPause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.TogglePlayPause()
	return s.sequencer.IsPlaying()
}

func (s *session) Next() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.Next()
	return s.currentLocked()
}

func (s *session) Previous() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.Previous()
	return s.currentLocked()
}

func (s *session) currentLocked() (int, string) {
	index := s.sequencer.CurrentIndex()
	title := ""
	if track, ok := s.sequencer.Current(); ok {
		title = track.DisplayTitle()
	}
	return index, title
}

func (s *session) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequencer.ToggleShuffle()
}

func (s *session) CycleRepeat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequencer.CycleRepeat().String()
}

func (s *session) Enqueue(index int, playNext bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= s.sequencer.ListLen() {
		return 0, errors.New("index out of range for the active list")
	}
	s.sequencer.Enqueue(index, playNext)
	return s.sequencer.QueueLen(), nil
}

func (s *session) SetVolume(level float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.audio.SetVolume(level); err != nil {
		return 0, err
	}
	return s.audio.Volume(), nil
}

func (s *session) Seek(positionMS int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio.SeekMS(positionMS)
}

func (s *session) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
}

// OnEndOfMedia forwards the player's end-of-track signal to the sequencer.
func (s *session) OnEndOfMedia() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.OnEndOfMedia()
}

// RefreshActiveList swaps in a rescanned track list after a library change.
func (s *session) RefreshActiveList(list []catalog.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.SelectActiveList(list)
}

// Snapshot returns the state persisted across sessions.
func (s *session) Snapshot() (volume float64, shuffle bool, repeat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio.Volume(), s.sequencer.Shuffle(), int(s.sequencer.Repeat())
}
