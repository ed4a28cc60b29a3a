package manifest_test

import (
	"strings"
	"testing"

	"cadence/internal/manifest"
)

func TestDecode(t *testing.T) {
	csv := `Track Name,Artist Name(s),Album Name
Opening 2,Band A;Band B,Soundtrack Vol. 1
Closing,Solo Artist,
,Ghost Artist,Ghost Album
`
	result, err := manifest.Decode(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(result.Entries))
	}
	if result.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", result.Skipped)
	}
	if result.Entries[0].TrackName != "Opening 2" {
		t.Fatalf("first entry = %+v", result.Entries[0])
	}
	if result.Entries[1].AlbumName != "" {
		t.Fatalf("expected empty album, got %q", result.Entries[1].AlbumName)
	}
}

func TestDecodePreservesOrder(t *testing.T) {
	csv := `Track Name,Artist Name(s),Album Name
b,,
a,,
c,,
`
	result, err := manifest.Decode(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var got []string
	for _, e := range result.Entries {
		got = append(got, e.TrackName)
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDecodeMissingHeader(t *testing.T) {
	if _, err := manifest.Decode(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input without header")
	}
}

func TestArtists(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"semicolons", "A; B ;C", []string{"A", "B", "C"}},
		{"commas", "A, B", []string{"A", "B"}},
		{"mixed", "A;B,C", []string{"A", "B", "C"}},
		{"single", "Solo", []string{"Solo"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := manifest.Entry{ArtistNames: tt.in}.Artists()
			if len(got) != len(tt.want) {
				t.Fatalf("Artists(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Artists(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
