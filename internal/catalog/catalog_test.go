package catalog_test

import (
	"testing"

	"cadence/internal/catalog"
	"cadence/internal/tags"
)

func TestNewTrackAppliesFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		md         tags.Metadata
		wantArtist string
		wantAlbum  string
		wantMeta   bool
	}{
		{"full tags", tags.Metadata{Title: "Song", Artist: "Band", Album: "LP"}, "Band", "LP", true},
		{"no tags", tags.Metadata{}, catalog.UnknownArtist, catalog.UnknownAlbum, false},
		{"title only", tags.Metadata{Title: "Song"}, catalog.UnknownArtist, catalog.UnknownAlbum, false},
		{"artist only", tags.Metadata{Artist: "Band"}, "Band", catalog.UnknownAlbum, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := catalog.NewTrack("/m/a.mp3", tt.md)
			if track.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", track.Artist, tt.wantArtist)
			}
			if track.Album != tt.wantAlbum {
				t.Errorf("Album = %q, want %q", track.Album, tt.wantAlbum)
			}
			if track.HasMetadata() != tt.wantMeta {
				t.Errorf("HasMetadata = %v, want %v", track.HasMetadata(), tt.wantMeta)
			}
		})
	}
}

func TestNewTrackClampsNegativeDuration(t *testing.T) {
	track := catalog.NewTrack("/m/a.mp3", tags.Metadata{DurationSeconds: -3})
	if track.DurationSeconds != 0 {
		t.Fatalf("DurationSeconds = %d, want 0", track.DurationSeconds)
	}
}

func TestCatalogFirstSeenWins(t *testing.T) {
	c := catalog.New()
	first := catalog.NewTrack("/m/a.mp3", tags.Metadata{Title: "First", Artist: "X"})
	second := catalog.NewTrack("/m/a.mp3", tags.Metadata{Title: "Second", Artist: "Y"})

	if !c.Add(first) {
		t.Fatal("first insert should succeed")
	}
	if c.Add(second) {
		t.Fatal("duplicate path insert should be rejected")
	}
	got, ok := c.Get("/m/a.mp3")
	if !ok || got.Title != "First" {
		t.Fatalf("expected first-seen record, got %+v", got)
	}
}

func TestCatalogTracksSortedByPath(t *testing.T) {
	c := catalog.New()
	for _, p := range []string{"/m/c.mp3", "/m/a.mp3", "/m/b.mp3"} {
		c.Add(catalog.NewTrack(p, tags.Metadata{}))
	}
	tracks := c.Tracks()
	want := []string{"/m/a.mp3", "/m/b.mp3", "/m/c.mp3"}
	for i, p := range want {
		if tracks[i].Path != p {
			t.Fatalf("tracks[%d].Path = %q, want %q", i, tracks[i].Path, p)
		}
	}
}

func TestCatalogMergeSkipsExisting(t *testing.T) {
	c := catalog.New()
	c.Add(catalog.NewTrack("/m/a.mp3", tags.Metadata{}))
	added := c.Merge([]catalog.Track{
		catalog.NewTrack("/m/a.mp3", tags.Metadata{}),
		catalog.NewTrack("/m/b.mp3", tags.Metadata{}),
	})
	if added != 1 {
		t.Fatalf("Merge added = %d, want 1", added)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestCatalogSearch(t *testing.T) {
	c := catalog.New()
	c.Add(catalog.NewTrack("/m/opening2.mp3", tags.Metadata{Title: "Opening (2)", Artist: "Band"}))
	c.Add(catalog.NewTrack("/m/other.mp3", tags.Metadata{Title: "Closing", Artist: "Band"}))

	hits := c.Search("opening 2")
	if len(hits) != 1 || hits[0].Path != "/m/opening2.mp3" {
		t.Fatalf("Search returned %+v", hits)
	}
	if got := len(c.Search("band")); got != 2 {
		t.Fatalf("artist search hits = %d, want 2", got)
	}
	if got := len(c.Search("")); got != 2 {
		t.Fatalf("empty query should return all tracks, got %d", got)
	}
}
