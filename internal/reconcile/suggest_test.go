package reconcile_test

import (
	"testing"

	"cadence/internal/catalog"
	"cadence/internal/manifest"
	"cadence/internal/reconcile"
)

func TestSuggestRanksBySimilarity(t *testing.T) {
	entry := manifest.Entry{TrackName: "Kyoukaisen"}
	tracks := []catalog.Track{
		metaTrack("/m/a.mp3", "Kyoukaisen", "Band", ""),
		metaTrack("/m/b.mp3", "Kyoukaisen Remix", "Band", ""),
		metaTrack("/m/c.mp3", "Completely Different", "Band", ""),
	}

	suggestions := reconcile.Suggest(entry, tracks, 5)
	if len(suggestions) < 2 {
		t.Fatalf("suggestions = %d, want >= 2", len(suggestions))
	}
	if suggestions[0].Track.Path != "/m/a.mp3" {
		t.Fatalf("best suggestion = %s, want exact title", suggestions[0].Track.Path)
	}
	for _, s := range suggestions {
		if s.Track.Path == "/m/c.mp3" {
			t.Fatal("dissimilar track should fall below the similarity floor")
		}
	}
}

func TestSuggestLimitsResults(t *testing.T) {
	entry := manifest.Entry{TrackName: "song"}
	tracks := []catalog.Track{
		metaTrack("/m/1.mp3", "song", "A", ""),
		metaTrack("/m/2.mp3", "song", "B", ""),
		metaTrack("/m/3.mp3", "song", "C", ""),
	}
	if got := len(reconcile.Suggest(entry, tracks, 2)); got != 2 {
		t.Fatalf("suggestions = %d, want 2", got)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	if got := reconcile.Suggest(manifest.Entry{}, nil, 3); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
}
