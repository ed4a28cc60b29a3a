package reconcile_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"cadence/internal/catalog"
	"cadence/internal/manifest"
	"cadence/internal/reconcile"
	"cadence/internal/tags"
)

func metaTrack(path, title, artist, album string) catalog.Track {
	return catalog.NewTrack(path, tags.Metadata{Title: title, Artist: artist, Album: album})
}

func bareTrack(path string) catalog.Track {
	return catalog.NewTrack(path, tags.Metadata{})
}

func writeOverrides(t *testing.T, entries map[string]string) *reconcile.Overrides {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.json")
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal overrides: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}
	return reconcile.NewOverrides(path, nil)
}

func TestReconcileHighConfidenceTitleMatch(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "Opening 2 Kyoukaisen", ArtistNames: "Band"}}
	tracks := []catalog.Track{
		metaTrack("/m/op2.mp3", "Opening (2) — Kyoukaisen", "Band", ""),
		metaTrack("/m/other.mp3", "Unrelated", "Someone", ""),
	}

	results := matcher.Reconcile(entries, tracks)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.Track == nil || r.Track.Path != "/m/op2.mp3" {
		t.Fatalf("unexpected match: %+v", r)
	}
	if r.Tier != reconcile.TierHigh {
		t.Fatalf("tier = %v, want high", r.Tier)
	}
	if r.Score < 8 {
		t.Fatalf("score = %v, want >= 8", r.Score)
	}
}

func TestReconcileFilenameOnlyTrackWeighting(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "Opening 2 Kyoukaisen"}}
	tracks := []catalog.Track{bareTrack("/m/opening 2 kyoukaisen.mp3")}

	results := matcher.Reconcile(entries, tracks)
	r := results[0]
	if r.Track == nil || r.Tier != reconcile.TierHigh {
		t.Fatalf("expected high-confidence filename match, got %+v", r)
	}
}

func TestReconcileMediumViaTitleOverlap(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "alpha beta", ArtistNames: "Nobody"}}
	// Title overlap 0.5 scores 7.5: below high, above medium floor.
	tracks := []catalog.Track{metaTrack("/m/x.mp3", "alpha gamma", "Other Artist", "")}

	r := matcher.Reconcile(entries, tracks)[0]
	if r.Track == nil {
		t.Fatalf("expected medium acceptance, got unmatched (score %v)", r.Score)
	}
	if r.Tier != reconcile.TierMedium {
		t.Fatalf("tier = %v, want medium (score %v)", r.Tier, r.Score)
	}
}

func TestReconcileMediumViaArtistSecondary(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "totally different name", ArtistNames: "Band"}}
	// No title/filename signal; the +5 artist bonus alone lands in the
	// medium band and the secondary artist check accepts.
	tracks := []catalog.Track{metaTrack("/m/unrelated.mp3", "unrelated song", "The Band", "")}

	r := matcher.Reconcile(entries, tracks)[0]
	if r.Track == nil || r.Tier != reconcile.TierMedium {
		t.Fatalf("expected medium via artist, got %+v (score %v)", r.Tier, r.Score)
	}
}

func TestReconcileCandidateRejectedBySecondary(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "alpha beta gamma delta", ArtistNames: "Nobody"}}
	// One of four tokens overlaps: score 3.75, secondary overlap 0.25.
	tracks := []catalog.Track{metaTrack("/m/x.mp3", "alpha", "Other Artist", "")}

	r := matcher.Reconcile(entries, tracks)[0]
	if r.Track != nil {
		t.Fatalf("expected rejection by secondary check, got match at tier %v", r.Tier)
	}
	if r.Score < 3.5 || r.Score >= 8 {
		t.Fatalf("score = %v, expected medium band", r.Score)
	}
}

func TestReconcileUniquenessInvariant(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{
		{TrackName: "Kyoukaisen", ArtistNames: "Band"},
		{TrackName: "Kyoukaisen (TV Size)", ArtistNames: "Band"},
	}
	tracks := []catalog.Track{metaTrack("/m/k.mp3", "Kyoukaisen", "Band", "")}

	results := matcher.Reconcile(entries, tracks)
	var matched int
	for _, r := range results {
		if r.Track != nil {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("matched = %d, want exactly 1 (paths are reserved once consumed)", matched)
	}
	if results[0].Track == nil {
		t.Fatal("earlier manifest entry should win the reservation")
	}
}

func TestReconcileEmptyCatalog(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	results := matcher.Reconcile([]manifest.Entry{{TrackName: "anything"}}, nil)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Track != nil || results[0].Score != 0 || results[0].Tier != reconcile.TierNone {
		t.Fatalf("expected unmatched zero-score result, got %+v", results[0])
	}
}

func TestReconcileOverrideBypassesScoring(t *testing.T) {
	overrides := writeOverrides(t, map[string]string{"Weird Romaji Name": "local_file.mp3"})
	matcher := reconcile.NewMatcher(nil, reconcile.WithOverrides(overrides))

	entries := []manifest.Entry{{TrackName: "Weird Romaji Name"}}
	tracks := []catalog.Track{metaTrack("/m/local_file.mp3", "全然違う曲名", "誰か", "")}

	r := matcher.Reconcile(entries, tracks)[0]
	if r.Track == nil || r.Track.Path != "/m/local_file.mp3" {
		t.Fatalf("override did not resolve: %+v", r)
	}
	if r.Tier != reconcile.TierHigh {
		t.Fatalf("tier = %v, want high", r.Tier)
	}
	if !math.IsInf(r.Score, 1) {
		t.Fatalf("score = %v, want +Inf", r.Score)
	}
}

func TestReconcileOverrideTargetAlreadyClaimed(t *testing.T) {
	overrides := writeOverrides(t, map[string]string{
		"First":  "shared.mp3",
		"Second": "shared.mp3",
	})
	matcher := reconcile.NewMatcher(nil, reconcile.WithOverrides(overrides))

	entries := []manifest.Entry{{TrackName: "First"}, {TrackName: "Second"}}
	tracks := []catalog.Track{bareTrack("/m/shared.mp3")}

	results := matcher.Reconcile(entries, tracks)
	if results[0].Track == nil {
		t.Fatal("first override should resolve")
	}
	if results[1].Track != nil {
		t.Fatal("second override should fall through once target is claimed")
	}
}

func TestReconcileTieBreakFirstSeen(t *testing.T) {
	matcher := reconcile.NewMatcher(nil)
	entries := []manifest.Entry{{TrackName: "song name"}}
	tracks := []catalog.Track{
		bareTrack("/m/a - song name.mp3"),
		bareTrack("/m/b - song name.mp3"),
	}

	r := matcher.Reconcile(entries, tracks)[0]
	if r.Track == nil || r.Track.Path != "/m/a - song name.mp3" {
		t.Fatalf("tie should break to first catalog entry, got %+v", r.Track)
	}
}
