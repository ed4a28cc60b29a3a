package acquire

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/playlist"
	"cadence/internal/tags"
	"cadence/internal/testsupport"
)

type stubReader struct{}

func (stubReader) Read(path string) (tags.Metadata, error) {
	return tags.Metadata{Title: filepath.Base(path), Artist: "Fetched"}, nil
}

func testConfig(t *testing.T, command string, extra ...string) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithAcquireCommand(command, extra...))
	cfg.Acquire.ShutdownSeconds = 2
	return cfg
}

func collectUntilDone(t *testing.T, m *Manager) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev := <-m.Events():
			events = append(events, ev)
			if ev.Kind == EventDone {
				return events
			}
		case <-deadline:
			t.Fatal("timed out waiting for terminal event")
		}
	}
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line       string
		done, total int
		ok         bool
	}{
		{"downloaded 3/10 items", 3, 10, true},
		{"2/2", 2, 2, true},
		{"no counters here", 0, 0, false},
		{"bogus 5/0 ratio", 0, 0, false},
		{"over 7/3 done", 0, 0, false},
	}
	for _, tt := range tests {
		done, total, ok := parseProgress(tt.line)
		if done != tt.done || total != tt.total || ok != tt.ok {
			t.Errorf("parseProgress(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.line, done, total, ok, tt.done, tt.total, tt.ok)
		}
	}
}

func TestStartRequiresCommand(t *testing.T) {
	cfg := testConfig(t, "")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)
	if _, err := m.Start(context.Background(), "locator"); err == nil {
		t.Fatal("empty command should error")
	}
}

func TestSuccessfulAcquisitionScansDownloads(t *testing.T) {
	// The fetch command writes an audio file into its working directory,
	// which is the per-job download dir.
	cfg := testConfig(t, "sh", "-c", "echo fetching 1/1; touch track.mp3; echo")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)

	id, err := m.Start(context.Background(), "example://album")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	events := collectUntilDone(t, m)
	final := events[len(events)-1]
	if final.JobID != id {
		t.Fatalf("job id = %s, want %s", final.JobID, id)
	}
	if final.Err != nil {
		t.Fatalf("terminal err = %v, want success", final.Err)
	}
	if len(final.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(final.Tracks))
	}

	sawProgress := false
	for _, ev := range events {
		if ev.Kind == EventProgress && ev.Done == 1 && ev.Total == 1 {
			sawProgress = true
		}
	}
	if !sawProgress {
		t.Fatal("expected a 1/1 progress event")
	}
	m.Shutdown()
}

func TestFailedCommandReportsCause(t *testing.T) {
	cfg := testConfig(t, "sh", "-c", "echo broken; exit 3")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)

	if _, err := m.Start(context.Background(), "example://x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	events := collectUntilDone(t, m)
	final := events[len(events)-1]
	if final.Err == nil {
		t.Fatal("expected terminal failure")
	}
	m.Shutdown()
}

func TestEmptyDownloadIsFailure(t *testing.T) {
	cfg := testConfig(t, "sh", "-c", "echo nothing to do")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)

	if _, err := m.Start(context.Background(), "example://empty"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	events := collectUntilDone(t, m)
	if events[len(events)-1].Err == nil {
		t.Fatal("a fetch producing no files should fail")
	}
	m.Shutdown()
}

func TestCancelStopsAtLineBoundary(t *testing.T) {
	cfg := testConfig(t, "sh", "-c", "while true; do echo tick; sleep 0.05; done")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)

	id, err := m.Start(context.Background(), "example://slow")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Wait for the first output line so the job is mid-stream when cancelled.
	deadline := time.After(5 * time.Second)
	for waiting := true; waiting; {
		select {
		case ev := <-m.Events():
			if ev.Kind == EventOutput {
				waiting = false
			}
		case <-deadline:
			t.Fatal("no output before cancel")
		}
	}

	if !m.Cancel(id) {
		t.Fatal("Cancel should find the running job")
	}
	events := collectUntilDone(t, m)
	final := events[len(events)-1]
	if !errors.Is(final.Err, ErrCancelled) {
		t.Fatalf("terminal err = %v, want ErrCancelled", final.Err)
	}
	m.Shutdown()
}

func TestCancelUnknownJob(t *testing.T) {
	cfg := testConfig(t, "sh")
	m := NewManager(cfg, catalog.NewScanner(stubReader{}, nil), nil)
	if m.Cancel("nope") {
		t.Fatal("unknown job should not cancel")
	}
}

func TestMergeAndLink(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	existing := catalog.NewTrack("/dl/a.mp3", tags.Metadata{Title: "Already Here", Artist: "Band"})
	cat.Add(existing)

	fetched := []catalog.Track{
		catalog.NewTrack("/dl/a.mp3", tags.Metadata{Title: "Refetched", Artist: "Band"}),
		catalog.NewTrack("/dl/b.mp3", tags.Metadata{Title: "New", Artist: "Band"}),
	}

	playlists := playlist.NewStore(nil)
	merged, err := MergeAndLink(ctx, cat, playlists, "Downloads", "acquired", fetched)
	if err != nil {
		t.Fatalf("MergeAndLink: %v", err)
	}
	if merged != 1 {
		t.Fatalf("merged = %d, want 1 new path", merged)
	}

	p, exists := playlists.Get("Downloads")
	if !exists {
		t.Fatal("playlist not created")
	}
	if len(p.Songs) != 2 {
		t.Fatalf("songs = %d, want 2", len(p.Songs))
	}
	// The already-present path keeps its original catalog record.
	if p.Songs[0].Title != "Already Here" {
		t.Fatalf("title = %q, want existing record preserved", p.Songs[0].Title)
	}
}
