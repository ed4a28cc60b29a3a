package ipc_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"cadence/internal/ipc"
)

type fakeController struct {
	mu       sync.Mutex
	playing  bool
	index    int
	shuffle  bool
	repeat   string
	queueLen int
	volume   float64
	stopped  bool
	seekMS   int64
}

func (f *fakeController) Status() ipc.StatusResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ipc.StatusResponse{
		Playing: f.playing,
		Index:   f.index,
		Title:   "Test Track",
		Volume:  f.volume,
		Shuffle: f.shuffle,
		Repeat:  f.repeat,
	}
}

func (f *fakeController) PlayPause() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = !f.playing
	return f.playing
}

func (f *fakeController) Next() (int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index++
	return f.index, "Next Track"
}

func (f *fakeController) Previous() (int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index--
	return f.index, "Previous Track"
}

func (f *fakeController) ToggleShuffle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shuffle = !f.shuffle
	return f.shuffle
}

func (f *fakeController) CycleRepeat() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repeat = "all"
	return f.repeat
}

func (f *fakeController) Enqueue(index int, playNext bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 {
		return 0, errors.New("index out of range")
	}
	f.queueLen++
	return f.queueLen, nil
}

func (f *fakeController) SetVolume(level float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = level
	return level, nil
}

func (f *fakeController) Seek(positionMS int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seekMS = positionMS
	return nil
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func startServer(t *testing.T) (*ipc.Client, *fakeController) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "cadence.sock")
	ctrl := &fakeController{repeat: "off", volume: 0.8}

	server, err := ipc.NewServer(context.Background(), socket, ctrl, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, ctrl
}

func TestStatusRoundTrip(t *testing.T) {
	client, _ := startServer(t)
	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Title != "Test Track" || status.Volume != 0.8 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestTransportControls(t *testing.T) {
	client, ctrl := startServer(t)

	pp, err := client.PlayPause()
	if err != nil || !pp.Playing {
		t.Fatalf("PlayPause = %+v, %v", pp, err)
	}
	next, err := client.Next()
	if err != nil || next.Index != 1 {
		t.Fatalf("Next = %+v, %v", next, err)
	}
	prev, err := client.Previous()
	if err != nil || prev.Index != 0 {
		t.Fatalf("Previous = %+v, %v", prev, err)
	}
	sh, err := client.Shuffle()
	if err != nil || !sh.Shuffle {
		t.Fatalf("Shuffle = %+v, %v", sh, err)
	}
	rep, err := client.Repeat()
	if err != nil || rep.Repeat != "all" {
		t.Fatalf("Repeat = %+v, %v", rep, err)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if !ctrl.playing || ctrl.index != 0 || !ctrl.shuffle {
		t.Fatalf("controller state not updated: %+v", ctrl)
	}
}

func TestEnqueueErrorPropagates(t *testing.T) {
	client, _ := startServer(t)
	if _, err := client.Enqueue(-1, false); err == nil {
		t.Fatal("controller error should reach the client")
	}
	resp, err := client.Enqueue(3, true)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if resp.QueueLen != 1 {
		t.Fatalf("queue len = %d, want 1", resp.QueueLen)
	}
}

func TestVolumeSeekStop(t *testing.T) {
	client, ctrl := startServer(t)

	vol, err := client.Volume(0.4)
	if err != nil || vol.Level != 0.4 {
		t.Fatalf("Volume = %+v, %v", vol, err)
	}
	if _, err := client.Seek(30000); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := client.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.volume != 0.4 || ctrl.seekMS != 30000 || !ctrl.stopped {
		t.Fatalf("controller state: %+v", ctrl)
	}
}
